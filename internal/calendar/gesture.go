package calendar

import (
	"errors"
	"sync"
	"time"

	"calendarApp/internal/models/event"
	"calendarApp/internal/models/goal"
	"calendarApp/internal/models/task"

	"github.com/google/uuid"
)

var ErrGestureInProgress = errors.New("жест уже выполняется")

// Gesture текущее взаимодействие с сеткой: Idle, Dragging, DraggingTask или Resizing
type Gesture interface {
	gesture()
}

type Idle struct{}

type Dragging struct {
	EventID uuid.UUID
}

type DraggingTask struct {
	TaskID uuid.UUID
}

type Resizing struct {
	EventID    uuid.UUID
	PendingEnd time.Time
}

func (Idle) gesture()         {}
func (Dragging) gesture()     {}
func (DraggingTask) gesture() {}
func (Resizing) gesture()     {}

// EventUpdate единственная запись, порождаемая завершённым жестом
type EventUpdate struct {
	ID        uuid.UUID
	Date      time.Time
	StartTime time.Time
	EndTime   time.Time
}

func (u EventUpdate) Options() []event.Option {
	return []event.Option{
		event.WithDate(u.Date),
		event.WithStartTime(u.StartTime),
		event.WithEndTime(u.EndTime),
	}
}

// Outcome результат Release: не больше одного из полей заполнено
type Outcome struct {
	Update *EventUpdate
	Draft  *EventDraft
}

func (o Outcome) Empty() bool {
	return o.Update == nil && o.Draft == nil
}

// Controller владеет текущим жестом. Пока жест активен, клики подавлены;
// после растягивания подавляется и завершающий клик того же жеста.
type Controller struct {
	mtx  sync.Mutex
	geom Geometry

	current Gesture
	ev      event.Event
	tk      task.Task
	gl      *goal.Goal

	initialHeight float64
	suppressClick bool
}

func NewController(geom Geometry) *Controller {
	return &Controller{
		geom:    geom,
		current: Idle{},
	}
}

func (c *Controller) Current() Gesture {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.current
}

// PressEvent начинает перенос, либо растягивание если нажата ручка
func (c *Controller) PressEvent(ev *event.Event, onHandle bool) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if _, idle := c.current.(Idle); !idle {
		return ErrGestureInProgress
	}

	c.ev = *ev
	c.suppressClick = false
	if onHandle {
		c.initialHeight = c.geom.Height(ev.Duration())
		c.current = Resizing{EventID: ev.ID, PendingEnd: ev.EndTime}
		return nil
	}
	c.current = Dragging{EventID: ev.ID}
	return nil
}

func (c *Controller) PressTask(t *task.Task, g *goal.Goal) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if _, idle := c.current.(Idle); !idle {
		return ErrGestureInProgress
	}

	c.tk = *t
	c.gl = g
	c.suppressClick = false
	c.current = DraggingTask{TaskID: t.ID}
	return nil
}

// PointerMove deltaY - суммарное вертикальное смещение от нажатия.
// Влияет только на растягивание.
func (c *Controller) PointerMove(deltaY float64) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	resizing, ok := c.current.(Resizing)
	if !ok {
		return
	}

	d := c.geom.ResizeDuration(c.initialHeight + deltaY)
	resizing.PendingEnd = c.ev.StartTime.Add(d)
	c.current = resizing
}

// Release завершает жест. target == nil - отпускание вне сетки.
func (c *Controller) Release(target *SlotRef) Outcome {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	var out Outcome
	switch g := c.current.(type) {
	case Dragging:
		if target != nil {
			update := MoveTo(&c.ev, *target)
			if !update.StartTime.Equal(c.ev.StartTime) || !update.Date.Equal(event.DayOf(c.ev.Date)) {
				out.Update = &update
			}
		}
	case DraggingTask:
		if target != nil {
			draft := NewDraft(&c.tk, c.gl, *target)
			out.Draft = &draft
		}
	case Resizing:
		if !g.PendingEnd.Equal(c.ev.EndTime) {
			out.Update = &EventUpdate{
				ID:        c.ev.ID,
				Date:      c.ev.Date,
				StartTime: c.ev.StartTime,
				EndTime:   g.PendingEnd,
			}
		}
		c.suppressClick = true
	}

	c.reset()
	return out
}

func (c *Controller) Cancel() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.reset()
}

// ClickAllowed false во время жеста и один раз после растягивания
func (c *Controller) ClickAllowed() bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if _, idle := c.current.(Idle); !idle {
		return false
	}
	if c.suppressClick {
		c.suppressClick = false
		return false
	}
	return true
}

func (c *Controller) reset() {
	c.current = Idle{}
	c.ev = event.Event{}
	c.tk = task.Task{}
	c.gl = nil
	c.initialHeight = 0
}

// MoveTo переносит событие в слот с сохранением длительности.
// month сохраняет время суток, year сохраняет число месяца (с поправкой на длину месяца) и время.
func MoveTo(ev *event.Event, target SlotRef) EventUpdate {
	orig := ev.StartTime.UTC()
	clock := time.Duration(orig.Hour())*time.Hour +
		time.Duration(orig.Minute())*time.Minute +
		time.Duration(orig.Second())*time.Second +
		time.Duration(orig.Nanosecond())

	var start time.Time
	switch target.View {
	case ViewDay, ViewWeek:
		start = target.Start()
	case ViewMonth:
		start = target.Date.Add(clock)
	case ViewYear:
		day := orig.Day()
		if last := daysIn(target.Date.Year(), target.Date.Month()); day > last {
			day = last
		}
		start = time.Date(target.Date.Year(), target.Date.Month(), day, 0, 0, 0, 0, time.UTC).Add(clock)
	default:
		start = orig
	}

	return EventUpdate{
		ID:        ev.ID,
		Date:      event.DayOf(start),
		StartTime: start,
		EndTime:   start.Add(ev.Duration()),
	}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
