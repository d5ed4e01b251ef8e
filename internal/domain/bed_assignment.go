package domain

import (
	"strconv"
	"time"
)

// BedSlot physical bed: room + sub-bed number
type BedSlot struct {
	Room string `json:"room"`
	Bed  int    `json:"bed"`
}

// Key "501-2"
func (s BedSlot) Key() string {
	return s.Room + "-" + strconv.Itoa(s.Bed)
}

// BedAssignment occupancy link (bed_assignments table)
// At most one active row per patient and per (room_number, bed_number).
// A transfer deactivates the old row and inserts a new one.
type BedAssignment struct {
	AssignmentID string     `db:"assignment_id" json:"assignment_id"`
	PatientID    string     `db:"patient_id" json:"patient_id"`
	AdmissionID  string     `db:"admission_id" json:"admission_id"`
	RoomNumber   string     `db:"room_number" json:"room_number"`
	BedNumber    int        `db:"bed_number" json:"bed_number"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	AssignedAt   time.Time  `db:"assigned_at" json:"assigned_at"`
	DischargedAt *time.Time `db:"discharged_at" json:"discharged_at,omitempty"`
}

// Slot returns the physical bed of the assignment
func (b *BedAssignment) Slot() BedSlot {
	return BedSlot{Room: b.RoomNumber, Bed: b.BedNumber}
}

// BedOccupancy active assignment joined with the occupying patient
type BedOccupancy struct {
	BedAssignment
	PatientName string `db:"patient_name" json:"patient_name"`
	RUT         string `db:"rut" json:"rut"`
}
