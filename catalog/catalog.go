// Package catalog holds the authoritative in-memory course list for the
// running server. All reads and writes go through a single Catalog, which
// persists the full list through a core.CatalogStore and pushes the
// post-mutation snapshot to subscribers.
package catalog

import (
	"context"
	"courseboard/core"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

type (
	// Catalog mediates all access to the course list. Construct one with
	// New and hand it by reference to every consumer.
	Catalog struct {
		mu      sync.Mutex
		store   core.CatalogStore
		courses []core.Course
		subs    []*Subscription
	}

	// Subscription is the handle returned by Subscribe. Cancel stops
	// further invocations and is safe to call more than once.
	Subscription struct {
		c         *Catalog
		fn        func([]core.Course)
		cancelled bool
	}
)

// New creates a Catalog hydrated from the store. A corrupt persisted value
// is logged and treated as no data; any other load failure is returned.
func New(ctx context.Context, store core.CatalogStore) (*Catalog, error) {
	courses, err := store.Load(ctx)
	if err != nil {
		if !errors.Is(err, core.ErrCorruptState) {
			return nil, err
		}
		logrus.WithError(err).Warn("Discarding corrupt course list, starting empty")
		courses = nil
	}

	logrus.WithField("courses", len(courses)).Info("Catalog hydrated")
	return &Catalog{store: store, courses: courses}, nil
}

// Snapshot returns a copy of the current course list. Callers own the copy
// and may not affect catalog state through it.
func (c *Catalog) Snapshot() []core.Course {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn to be invoked synchronously with the fresh snapshot
// after every mutation, in registration order. fn must not call back into
// the catalog. Cancel the returned handle to stop notifications.
func (c *Catalog) Subscribe(fn func([]core.Course)) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	sub := &Subscription{c: c, fn: fn}
	c.subs = append(c.subs, sub)
	return sub
}

// Cancel releases the subscription. Notifications published strictly after
// Cancel returns are no longer delivered. Idempotent.
func (s *Subscription) Cancel() {
	if s == nil || s.c == nil {
		return
	}
	c := s.c

	c.mu.Lock()
	defer c.mu.Unlock()

	if s.cancelled {
		return
	}
	s.cancelled = true
	for i, sub := range c.subs {
		if sub == s {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			break
		}
	}
}

// Add assigns an ID, appends the course, persists the full new list and
// publishes it. On a persistence failure the in-memory list keeps its
// pre-mutation value and the error is returned.
func (c *Catalog) Add(ctx context.Context, fields core.CourseFields) ([]core.Course, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// IDs are derived from the current length to stay compatible with
	// lists persisted by earlier deployments. After a delete, the next
	// add can therefore reuse an ID that is still live in the list.
	id := len(c.courses) + 1
	next := make([]core.Course, len(c.courses), len(c.courses)+1)
	copy(next, c.courses)
	next = append(next, fields.WithID(id))

	if err := c.store.Save(ctx, next); err != nil {
		logrus.WithError(err).WithField("course_id", id).Error("Failed to persist course list, add discarded")
		return nil, err
	}
	c.courses = next

	logrus.WithFields(logrus.Fields{
		"course_id": id,
		"title":     fields.Title,
		"courses":   len(next),
	}).Info("Course added")

	snap := c.snapshotLocked()
	c.publishLocked(snap)
	return snap, nil
}

// Delete removes every course with the given ID, persists the new list and
// publishes it, with the same rollback rule as Add.
func (c *Catalog) Delete(ctx context.Context, id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]core.Course, 0, len(c.courses))
	for _, course := range c.courses {
		if course.ID != id {
			next = append(next, course)
		}
	}

	if err := c.store.Save(ctx, next); err != nil {
		logrus.WithError(err).WithField("course_id", id).Error("Failed to persist course list, delete discarded")
		return err
	}
	removed := len(c.courses) - len(next)
	c.courses = next

	logrus.WithFields(logrus.Fields{
		"course_id": id,
		"removed":   removed,
		"courses":   len(next),
	}).Info("Course deleted")

	c.publishLocked(c.snapshotLocked())
	return nil
}

func (c *Catalog) snapshotLocked() []core.Course {
	snap := make([]core.Course, len(c.courses))
	copy(snap, c.courses)
	return snap
}

// publishLocked invokes subscribers in registration order while holding the
// mutex, so no subscriber ever observes an intermediate state and mutations
// cannot interleave with notifications.
func (c *Catalog) publishLocked(snap []core.Course) {
	for _, sub := range c.subs {
		sub.fn(snap)
	}
}
