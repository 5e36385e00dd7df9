// SPDX-License-Identifier: Unlicense OR MIT

package app

// ProcessEvents processes all pending events and returns without
// waiting for new ones. Resize callbacks run on the calling goroutine
// before ProcessEvents returns. With nothing pending it is a no-op.
//
// Programs with a render loop should call ProcessEvents once per frame.
func (l *Library) ProcessEvents() error {
	const op = "process events"
	if !l.initialised {
		return newError(NotInitialised, op, nil)
	}
	return l.pump(op)
}

// ProcessEventsBlocking waits until at least one event is available and
// processes it along with everything else pending. It suits programs
// that only redraw in response to events.
func (l *Library) ProcessEventsBlocking() error {
	const op = "process events blocking"
	if !l.initialised {
		return newError(NotInitialised, op, nil)
	}
	return l.pumpBlocking(op)
}

func (l *Library) pump(op string) error {
	if err := l.conn.Roundtrip(); err != nil {
		return newError(RoundtripFailed, op, err)
	}
	if err := l.conn.DispatchPending(); err != nil {
		return newError(DispatchFailed, op, err)
	}
	if err := l.conn.Flush(); err != nil {
		return newError(FlushFailed, op, err)
	}
	return nil
}

func (l *Library) pumpBlocking(op string) error {
	if err := l.conn.Dispatch(); err != nil {
		return newError(DispatchFailed, op, err)
	}
	if err := l.conn.Roundtrip(); err != nil {
		return newError(RoundtripFailed, op, err)
	}
	return nil
}
