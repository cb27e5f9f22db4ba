// Package task holds the task model and the operations that edit a task list.
//
// A task list is owned by the caller. Every operation takes the current list
// and returns the resulting one; nothing is kept in package state. Mutating
// operations persist the whole list through a Saver before returning.
//
// # Addressing
//
// Tasks are addressed by their position in the list (0-based). A position is
// only meaningful until the next mutation: deleting index 1 from [A B C]
// yields [A C], after which index 1 refers to C.
//
// # Ordering
//
// View returns a sorted copy of the list:
//
//  1. due date ascending; tasks without a due date (stored as 9999-12-31) last
//  2. priority rank ascending: High=1, Medium=2, Low=3, anything else=4
//
// The sort is stable, so tasks that tie keep their insertion order.
//
// # Errors
//
// ErrInvalidDate and ErrInvalidIndex reject an operation before anything is
// changed or saved. Match them with errors.Is.
package task
