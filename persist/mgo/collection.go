package mgo

import (
	"errors"
	"fmt"
	"time"

	"github.com/globalsign/mgo"
	"github.com/globalsign/mgo/bson"
	"github.com/go-logr/logr"

	"github.com/supremind/courseauth/types"
)

const defaultRetryTimeout = 5 * time.Second

type collection struct {
	*mgo.Collection
	log          logr.Logger
	retryTimeout time.Duration
}

func (c *collection) copySession() *collection {
	db := c.Database
	return &collection{
		Collection:   db.Session.Copy().DB(db.Name).C(c.Name),
		log:          c.log,
		retryTimeout: c.retryTimeout,
	}
}

func (c *collection) closeSession() {
	c.Database.Session.Close()
}

func (c *collection) connectToWatch(token *bson.Raw) (cs *mgo.ChangeStream, closer func(), e error) {
	ss := c.copySession()
	cs, e = ss.Watch(nil, mgo.ChangeStreamOptions{
		FullDocument: mgo.UpdateLookup,
		ResumeAfter:  token,
	})
	if e != nil {
		ss.closeSession()
		return nil, nil, e
	}

	c.log.Info("watch mongo stream change")

	return cs, func() {
		cs.Close()
		ss.closeSession()
	}, nil
}

// collectionOption controls how to init a persister working on a mongodb collection
type collectionOption func(*collection)

// WithLogger sets logger for the persister
func WithLogger(log logr.Logger) collectionOption {
	return func(c *collection) {
		c.log = log
	}
}

// SetRetryTimeout sets how long to wait before reconnecting a broken change stream
func SetRetryTimeout(d time.Duration) collectionOption {
	return func(c *collection) {
		c.retryTimeout = d
	}
}

func parseMgoError(e error) error {
	if e == nil {
		return nil
	}
	if errors.Is(e, mgo.ErrNotFound) {
		return types.ErrNotFound
	}
	if mgo.IsDup(e) {
		return fmt.Errorf("%w: duplicate key", types.ErrInvalidInput)
	}
	return e
}

type changeStreamOperationType string

const (
	insert  changeStreamOperationType = "insert"
	delete  changeStreamOperationType = "delete"
	update  changeStreamOperationType = "update"
	replace changeStreamOperationType = "replace"
)
