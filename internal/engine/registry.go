package engine

import (
	"errors"
	"fmt"

	"github.com/tartampluch/go-friends-birthday/internal/config"
)

// ErrIndexOutOfRange is returned by Update, Remove and At for an index outside the list.
// The UI only ever passes indices it read from the current list, so seeing it
// means a programming error rather than bad user input.
var ErrIndexOutOfRange = errors.New(config.ErrIndexRange)

// Registry is the ordered in-memory collection of friends.
//
// It is not safe for concurrent use: every mutation happens on the UI event
// goroutine. Other goroutines get copies through List.
type Registry struct {
	friends []Friend
}

// NewRegistry creates a registry holding the given friends in order.
func NewRegistry(seed ...Friend) *Registry {
	friends := make([]Friend, len(seed))
	copy(friends, seed)
	return &Registry{friends: friends}
}

// Add appends a friend at the end of the list.
func (r *Registry) Add(f Friend) {
	r.friends = append(r.friends, f)
}

// Update replaces the friend at index. No other entry moves.
func (r *Registry) Update(index int, f Friend) error {
	if err := r.checkIndex(index); err != nil {
		return err
	}
	r.friends[index] = f
	return nil
}

// Remove deletes the friend at index; later entries shift down by one.
func (r *Registry) Remove(index int) error {
	if err := r.checkIndex(index); err != nil {
		return err
	}
	r.friends = append(r.friends[:index], r.friends[index+1:]...)
	return nil
}

// At returns the friend at index.
func (r *Registry) At(index int) (Friend, error) {
	if err := r.checkIndex(index); err != nil {
		return Friend{}, err
	}
	return r.friends[index], nil
}

// Len returns the number of friends.
func (r *Registry) Len() int {
	return len(r.friends)
}

// List returns a copy of the friends in display order.
func (r *Registry) List() []Friend {
	out := make([]Friend, len(r.friends))
	copy(out, r.friends)
	return out
}

func (r *Registry) checkIndex(index int) error {
	if index < 0 || index >= len(r.friends) {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(r.friends))
	}
	return nil
}
