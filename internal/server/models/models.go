// Package models defines the values stored in the database and the row
// types returned by reports.
package models

// Sex values stored in students.sex.
const (
	SexMale   = "M"
	SexFemale = "F"
)
