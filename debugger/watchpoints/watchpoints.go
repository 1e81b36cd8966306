// This file is part of Gopher386.
//
// Gopher386 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher386 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher386.  If not, see <https://www.gnu.org/licenses/>.

// Package watchpoints keeps a list of expressions that are checked after
// every instruction. A watchpoint hits when the value of its expression
// changes.
//
// Watchpoints are allocated from a fixed pool of PoolSize entries. The
// number of a watchpoint is its position in the pool and does not change.
// Deleted watchpoints are returned to the back of the free list so a
// number is not reused until every other free entry has been used.
package watchpoints

import (
	"errors"
	"fmt"
	"strings"
)

// PoolSize is the maximum number of active watchpoints.
const PoolSize = 32

// MaxExpressionLength is the length of the longest expression plus one.
const MaxExpressionLength = 64

// Sentinel errors returned by Insert().
var (
	ErrPoolExhausted     = errors.New("no free watchpoints")
	ErrExpressionTooLong = errors.New("expression too long")
)

// Evaluator is used to find the value of watched expressions.
type Evaluator interface {
	Evaluate(expr string) (uint32, error)
}

// end of list
const none = -1

type watchpoint struct {
	expr  string
	value uint32
	next  int
}

// Watchpoints is the pool of watchpoints and the list of those that are
// active.
type Watchpoints struct {
	ev Evaluator

	pool [PoolSize]watchpoint

	// head of the active list
	head int

	// the free list is a queue
	free     int
	freeTail int
}

// Hit describes a change of value of a watched expression.
type Hit struct {
	NO         int
	Expression string
	Old        uint32
	New        uint32
}

func (h Hit) String() string {
	return fmt.Sprintf("watchpoint %d: %s\n  old value = %#08x\n  new value = %#08x", h.NO, h.Expression, h.Old, h.New)
}

// Entry is an active watchpoint as returned by List().
type Entry struct {
	NO         int
	Expression string
	Value      uint32
}

// NewWatchpoints is the preferred method of initialisation for the
// Watchpoints type.
func NewWatchpoints(ev Evaluator) *Watchpoints {
	w := &Watchpoints{ev: ev}
	w.Clear()
	return w
}

// Clear all watchpoints and restore the free list to pool order.
func (w *Watchpoints) Clear() {
	for i := range w.pool {
		w.pool[i] = watchpoint{next: i + 1}
	}
	w.pool[PoolSize-1].next = none
	w.head = none
	w.free = 0
	w.freeTail = PoolSize - 1
}

// Active returns true if there are any watchpoints in the active list.
func (w *Watchpoints) Active() bool {
	return w.head != none
}

// take the entry at the front of the free list
func (w *Watchpoints) alloc() int {
	no := w.free
	if no == none {
		return none
	}
	w.free = w.pool[no].next
	if w.free == none {
		w.freeTail = none
	}
	return no
}

// return the entry to the back of the free list
func (w *Watchpoints) release(no int) {
	w.pool[no] = watchpoint{next: none}
	if w.freeTail == none {
		w.free = no
	} else {
		w.pool[w.freeTail].next = no
	}
	w.freeTail = no
}

// Insert a new watchpoint for the expression. The expression is evaluated
// immediately and the value is the one against which changes are detected.
// Returns the number of the new watchpoint.
//
// An error wrapping ErrPoolExhausted should be treated as fatal.
func (w *Watchpoints) Insert(expr string) (int, error) {
	expr = strings.TrimSpace(expr)
	if len(expr) >= MaxExpressionLength {
		return none, fmt.Errorf("watchpoints: %w (%d characters)", ErrExpressionTooLong, len(expr))
	}

	v, err := w.ev.Evaluate(expr)
	if err != nil {
		return none, fmt.Errorf("watchpoints: %w", err)
	}

	no := w.alloc()
	if no == none {
		return none, fmt.Errorf("watchpoints: %w (maximum of %d)", ErrPoolExhausted, PoolSize)
	}

	w.pool[no] = watchpoint{
		expr:  expr,
		value: v,
		next:  w.head,
	}
	w.head = no

	return no, nil
}

// Delete the watchpoint with the number. Returns false if there is no such
// active watchpoint.
func (w *Watchpoints) Delete(no int) bool {
	prev := none
	for i := w.head; i != none; i = w.pool[i].next {
		if i == no {
			if prev == none {
				w.head = w.pool[i].next
			} else {
				w.pool[prev].next = w.pool[i].next
			}
			w.release(i)
			return true
		}
		prev = i
	}
	return false
}

// Check every active watchpoint. Returns the watchpoints that have changed
// value and true if there are any.
//
// If any expression can't be evaluated then there is no hit and no stored
// value is updated. The expression may refer to memory that is not yet
// mapped for example.
func (w *Watchpoints) Check() ([]Hit, bool) {
	var values [PoolSize]uint32

	for i := w.head; i != none; i = w.pool[i].next {
		v, err := w.ev.Evaluate(w.pool[i].expr)
		if err != nil {
			return nil, false
		}
		values[i] = v
	}

	var hits []Hit
	for i := w.head; i != none; i = w.pool[i].next {
		wp := &w.pool[i]
		if values[i] != wp.value {
			hits = append(hits, Hit{
				NO:         i,
				Expression: wp.expr,
				Old:        wp.value,
				New:        values[i],
			})
			wp.value = values[i]
		}
	}

	return hits, len(hits) > 0
}

// List the active watchpoints. Most recently inserted first.
func (w *Watchpoints) List() []Entry {
	var l []Entry
	for i := w.head; i != none; i = w.pool[i].next {
		l = append(l, Entry{
			NO:         i,
			Expression: w.pool[i].expr,
			Value:      w.pool[i].value,
		})
	}
	return l
}

func (w *Watchpoints) String() string {
	if !w.Active() {
		return "no watchpoints"
	}

	s := strings.Builder{}
	s.WriteString("Num\tValue\t\tWhat")
	for _, e := range w.List() {
		s.WriteString(fmt.Sprintf("\n%d\t%#08x\t%s", e.NO, e.Value, e.Expression))
	}
	return s.String()
}
