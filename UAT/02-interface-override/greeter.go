// Package greeter greets people, pausing between greetings.
package greeter

import "time"

// Greeter greets by name.
type Greeter interface {
	Greet(name string) string
	Pause() time.Duration
}

// English greets in English.
type English struct{}

// Greet says hello to name.
func (English) Greet(name string) string {
	return "Hello, " + name
}

// Pause returns how long English waits between greetings.
func (English) Pause() time.Duration {
	return time.Second
}
