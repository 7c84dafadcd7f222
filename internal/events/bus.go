package events

import (
	"sync"

	"quant_terminal/internal/model"
)

const defaultBuffer = 16

// Bus - рассылка событий спина подписчикам.
// Publish не блокируется: подписчик с полным буфером пропускает событие.
type Bus struct {
	mtx    sync.RWMutex
	nextID int
	subs   map[int]chan model.SpinEvent
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan model.SpinEvent)}
}

// Subscribe возвращает канал событий и функцию отписки, закрывающую его
func (b *Bus) Subscribe(buffer int) (<-chan model.SpinEvent, func()) {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	ch := make(chan model.SpinEvent, buffer)

	b.mtx.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mtx.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mtx.Lock()
			delete(b.subs, id)
			b.mtx.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (b *Bus) Publish(ev model.SpinEvent) {
	b.mtx.RLock()
	defer b.mtx.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribers - количество активных подписчиков
func (b *Bus) Subscribers() int {
	b.mtx.RLock()
	defer b.mtx.RUnlock()
	return len(b.subs)
}
