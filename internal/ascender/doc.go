// Package ascender reads job records from the HR payroll database.
//
// Rows arrive ordered by employee number. They are normalised against a fixed column
// schema, grouped per employee in a single streaming pass and ranked so that the first
// job of every group is the employee's current one.
package ascender
