// Package stack provides a small generic LIFO used by the iterative tree
// walkers.
package stack

import (
	"errors"
)

var ErrEmptyStack = errors.New("empty stack")

type stack[T any] struct {
	s []T
}

type Stack[T any] interface {
	Push(v ...T)
	Pop() T
	Top() T
	Size() int
	Empty() bool
}

func New[T any](initialSize int) Stack[T] {
	return &stack[T]{make([]T, 0, initialSize)}
}

// Push pushes values in order, so the last one ends up on top.
func (s *stack[T]) Push(values ...T) {
	s.s = append(s.s, values...)
}

func (s *stack[T]) Pop() T {
	l := len(s.s)
	if l == 0 {
		panic(ErrEmptyStack)
	}

	var zero T
	value := s.s[l-1]
	s.s[l-1] = zero
	s.s = s.s[:l-1]
	return value
}

func (s *stack[T]) Top() T {
	l := len(s.s)
	if l == 0 {
		panic(ErrEmptyStack)
	}

	return s.s[l-1]
}

func (s *stack[T]) Size() int {
	return len(s.s)
}

func (s *stack[T]) Empty() bool {
	return len(s.s) == 0
}
