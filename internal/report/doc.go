// Package report renders API key sessions for ast-keyaudit.
//
// Every format carries the same four columns:
//
//	Username, User ID, Created, Last Access
//
// Created and Last Access are the session start and last access instants,
// rendered as "2006-01-02 15:04:05" in the report location (time.Local
// unless WithLocation says otherwise).
//
// CSV is the default and is written row by row: a malformed session stops
// the write with a FormatError and leaves the rows before it in place. The
// other formats validate every session before writing anything.
package report
