package facility

// Facility is a care institution housing zero or more patients. Patient
// membership is resolved by filtering patients on facility_id; the facility
// itself carries no patient list. Facilities are never deleted within a
// session.
type Facility struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
