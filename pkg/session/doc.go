/*
Package session serializes access to stored documents.

A Manager guards each document ID with a local mutex and, when configured,
a distributed lock, so read-modify-write cycles from concurrent toolbar
requests never interleave.
*/
package session
