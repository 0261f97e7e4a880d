// Package middleware decorates conversation history stores. Decorators
// rewrite message content on the way in (masking, encryption) and restore
// it on the way out where that is possible.
package middleware

import "github.com/javanetict/jnsuite/pkg/ports"

// Middleware allows wrapping a MessageLog to add behavior.
type Middleware func(ports.MessageLog) ports.MessageLog

// Chain applies middlewares so that the first one sees messages first.
func Chain(log ports.MessageLog, mws ...Middleware) ports.MessageLog {
	for i := len(mws) - 1; i >= 0; i-- {
		log = mws[i](log)
	}
	return log
}
