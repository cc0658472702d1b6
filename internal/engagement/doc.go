// Package engagement turns reaction and comment snapshots into blog and
// author popularity scores and ranks them.
//
// Every function here is pure: callers load the snapshots, this package only
// counts, sorts and truncates.
package engagement
