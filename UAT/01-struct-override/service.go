// Package service holds an integer service whose methods are overridden in its tests.
package service

// IntegerService returns fixed and echoed integers.
type IntegerService struct {
	calls int
}

// Calls returns how many times a method of s has run.
func (s *IntegerService) Calls() int {
	return s.calls
}

// Get returns n.
func (s *IntegerService) Get(n int) int {
	s.calls++

	return n
}

// GetOne returns 1.
func (s *IntegerService) GetOne() int {
	s.calls++

	return 1
}

// GetTwo returns 2.
func (s *IntegerService) GetTwo() int {
	s.calls++

	return 2
}

// Sum adds values to start.
func (s *IntegerService) Sum(start int, values ...int) int {
	s.calls++

	for _, v := range values {
		start += v
	}

	return start
}
