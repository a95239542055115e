// Package domain defines the core business entities of the scholar API:
// discovery jobs, their lifecycle states, and the resource records
// extracted from raw discovery reports.
package domain
