// Package com runs COM and WinRT calls on a dedicated OS thread. Objects
// created inside an apartment may only be touched from that thread, so every
// call is marshalled through Do.
package com

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// ErrClosed is returned by Do after Close.
var ErrClosed = errors.New("com: apartment closed")

type call struct {
	fn     func() error
	result chan error
}

// Apartment is a goroutine locked to one OS thread.
type Apartment struct {
	calls     chan call
	done      chan struct{}
	exited    chan struct{}
	closeOnce sync.Once
}

// NewApartment starts the apartment thread, running init on it first. If init
// fails the thread exits and the error is returned. uninit runs on the same
// thread after Close.
func NewApartment(init func() error, uninit func()) (*Apartment, error) {
	a := &Apartment{
		calls:  make(chan call),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	ready := make(chan error, 1)
	go a.loop(init, uninit, ready)
	if err := <-ready; err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Apartment) loop(init func() error, uninit func(), ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(a.exited)

	if init != nil {
		if err := init(); err != nil {
			ready <- err
			return
		}
	}
	if uninit != nil {
		defer uninit()
	}
	ready <- nil

	for {
		select {
		case c := <-a.calls:
			c.result <- c.fn()
		case <-a.done:
			return
		}
	}
}

// Do runs fn on the apartment thread and waits for it. ctx only bounds the
// wait for the thread to pick the call up; a started call runs to completion.
func (a *Apartment) Do(ctx context.Context, fn func() error) error {
	c := call{fn: fn, result: make(chan error, 1)}
	select {
	case a.calls <- c:
	case <-a.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-c.result
}

// Close stops the apartment thread after any running call finishes.
func (a *Apartment) Close() {
	a.closeOnce.Do(func() {
		close(a.done)
		<-a.exited
	})
}
