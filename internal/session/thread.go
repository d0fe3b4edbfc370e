package session

import (
	"container/list"

	"github.com/google/uuid"
)

// ThreadOptions configures a Thread.
type ThreadOptions struct {
	// MaxWindow is the maximum number of non-preserved messages kept in the thread.
	// Zero means the window is unbounded.
	MaxWindow int
}

// MessageOptions is the per-message policy attached when a message is appended.
type MessageOptions struct {
	// Preserve exempts the message from window eviction. Remove still deletes it.
	Preserve bool
	// Discard drops the message instead of storing it.
	Discard bool
}

// Mark identifies a point in a thread's append history. See Thread.Since.
type Mark uint64

type entry struct {
	msg    Message
	opts   MessageOptions
	seq    uint64
	all    *list.Element // position in Thread.entries
	window *list.Element // position in Thread.window, nil for preserved entries
}

// Thread is an ordered, capacity-bounded message history.
//
// Entries live in one insertion-ordered list; non-preserved entries are also
// linked into a second list so the oldest evictable entry is always at its front.
// An ID index makes Remove O(1). A Thread is not safe for concurrent use.
type Thread struct {
	opts    ThreadOptions
	entries *list.List
	window  *list.List
	byID    map[uuid.UUID]*entry
	seq     uint64
}

// NewThread creates an empty thread.
func NewThread(opts ThreadOptions) *Thread {
	if opts.MaxWindow < 0 {
		opts.MaxWindow = 0
	}
	return &Thread{
		opts:    opts,
		entries: list.New(),
		window:  list.New(),
		byID:    make(map[uuid.UUID]*entry),
	}
}

// Options returns the options the thread was created with.
func (t *Thread) Options() ThreadOptions { return t.opts }

// Append adds msg at the end of the thread.
//
// A discarded message is never stored. Appending a non-preserved message may
// evict the oldest non-preserved message when the window exceeds MaxWindow.
// If only preserved messages remain, nothing is evicted and the window stays over capacity.
// Appending a message that is already live in the thread is a no-op.
func (t *Thread) Append(msg Message, opts MessageOptions) {
	if opts.Discard {
		return
	}
	if _, ok := t.byID[msg.ID()]; ok {
		return
	}

	t.seq++
	e := &entry{msg: msg, opts: opts, seq: t.seq}
	e.all = t.entries.PushBack(e)
	if !opts.Preserve {
		e.window = t.window.PushBack(e)
	}
	t.byID[msg.ID()] = e

	if t.opts.MaxWindow > 0 && t.window.Len() > t.opts.MaxWindow {
		if oldest := t.window.Front(); oldest != nil {
			t.unlink(oldest.Value.(*entry))
		}
	}
}

// Remove deletes msg from the thread by identity, including preserved messages.
// It reports whether the message was found.
func (t *Thread) Remove(msg Message) bool {
	e, ok := t.byID[msg.ID()]
	if !ok {
		return false
	}
	t.unlink(e)
	return true
}

func (t *Thread) unlink(e *entry) {
	t.entries.Remove(e.all)
	if e.window != nil {
		t.window.Remove(e.window)
	}
	delete(t.byID, e.msg.ID())
}

// Len returns the number of live messages.
func (t *Thread) Len() int { return t.entries.Len() }

// WindowSize returns the number of live non-preserved messages.
func (t *Thread) WindowSize() int { return t.window.Len() }

// Contains reports whether a message with the given ID is live in the thread.
func (t *Thread) Contains(id uuid.UUID) bool {
	_, ok := t.byID[id]
	return ok
}

// Messages returns a copy of the live messages in order.
func (t *Thread) Messages() []Message {
	out := make([]Message, 0, t.entries.Len())
	for el := t.entries.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*entry).msg)
	}
	return out
}

// MessageOptionsAt returns the options of the live message at position i.
func (t *Thread) MessageOptionsAt(i int) (MessageOptions, bool) {
	e := t.entryAt(i)
	if e == nil {
		return MessageOptions{}, false
	}
	return e.opts, true
}

// At returns the live message at position i. Negative positions count from the end.
func (t *Thread) At(i int) (Message, bool) {
	e := t.entryAt(i)
	if e == nil {
		return Message{}, false
	}
	return e.msg, true
}

// Last returns the most recently appended live message.
func (t *Thread) Last() (Message, bool) {
	return t.At(-1)
}

func (t *Thread) entryAt(i int) *entry {
	n := t.entries.Len()
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return nil
	}
	if i < n/2 {
		el := t.entries.Front()
		for ; i > 0; i-- {
			el = el.Next()
		}
		return el.Value.(*entry)
	}
	el := t.entries.Back()
	for j := n - 1; j > i; j-- {
		el = el.Prev()
	}
	return el.Value.(*entry)
}

// Mark returns the current position in the append history.
func (t *Thread) Mark() Mark { return Mark(t.seq) }

// Since returns the live messages appended after mark, in order.
func (t *Thread) Since(mark Mark) []Message {
	var rev []Message
	for el := t.entries.Back(); el != nil; el = el.Prev() {
		e := el.Value.(*entry)
		if e.seq <= uint64(mark) {
			break
		}
		rev = append(rev, e.msg)
	}
	out := make([]Message, len(rev))
	for i, m := range rev {
		out[len(rev)-1-i] = m
	}
	return out
}
