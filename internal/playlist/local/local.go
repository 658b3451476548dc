// Package local is a degraded standalone playlist for a single client when
// no room coordination is available. It is not part of the room protocol:
// no duplicate check, no persistence, no fanout.
package local

import (
	"errors"
	"sync"
)

var ErrOutOfRange = errors.New("index out of range")

type Item struct {
	Url   string `json:"url"`
	Title string `json:"title"`
}

type Playlist struct {
	mu      sync.Mutex
	items   []Item
	current int
}

func New() *Playlist {
	return &Playlist{current: -1}
}

func (p *Playlist) Add(item Item) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.items = append(p.items, item)
	if p.current == -1 {
		p.current = 0
	}

	return len(p.items) - 1
}

func (p *Playlist) Remove(index int) (Item, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.items) {
		return Item{}, ErrOutOfRange
	}

	removed := p.items[index]
	p.items = append(p.items[:index], p.items[index+1:]...)

	switch {
	case len(p.items) == 0:
		p.current = -1
	case index < p.current:
		p.current--
	case p.current >= len(p.items):
		p.current = len(p.items) - 1
	}

	return removed, nil
}

// Reorder moves the item at from to position to, shifting the items in
// between.
func (p *Playlist) Reorder(from, to int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if from < 0 || from >= len(p.items) || to < 0 || to >= len(p.items) {
		return ErrOutOfRange
	}
	if from == to {
		return nil
	}

	moved := p.items[from]
	currentItem := p.current

	p.items = append(p.items[:from], p.items[from+1:]...)
	p.items = append(p.items[:to], append([]Item{moved}, p.items[to:]...)...)

	switch {
	case currentItem == from:
		p.current = to
	case from < currentItem && to >= currentItem:
		p.current--
	case from > currentItem && to <= currentItem:
		p.current++
	}

	return nil
}

func (p *Playlist) Next() (Item, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == -1 || p.current+1 >= len(p.items) {
		return Item{}, false
	}

	p.current++

	return p.items[p.current], true
}

func (p *Playlist) Previous() (Item, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current <= 0 {
		return Item{}, false
	}

	p.current--

	return p.items[p.current], true
}

func (p *Playlist) Current() (Item, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == -1 {
		return Item{}, false
	}

	return p.items[p.current], true
}

func (p *Playlist) Items() []Item {
	p.mu.Lock()
	defer p.mu.Unlock()

	items := make([]Item, len(p.items))
	copy(items, p.items)

	return items
}
