package cache

import "fmt"

// TagType names an entity family.
type TagType string

const (
	TagUser          TagType = "User"
	TagPatient       TagType = "Patient"
	TagMedicalRecord TagType = "MedicalRecord"
	TagDiagnosis     TagType = "Diagnosis"
	TagAppointment   TagType = "Appointment"
	TagPrescription  TagType = "Prescription"
	TagStats         TagType = "Stats"
	TagActivityLog   TagType = "ActivityLog"
)

// Tag marks an entry as depending on an entity type, or on one entity when ID is set.
type Tag struct {
	Type TagType `json:"type"`
	ID   string  `json:"id,omitempty"`
}

func TypeTag(t TagType) Tag {
	return Tag{Type: t}
}

func IDTag(t TagType, id string) Tag {
	return Tag{Type: t, ID: id}
}

// Matches reports whether invalidating t affects an entry carrying other.
// A type-only tag matches every tag of its type; an id tag matches only itself.
func (t Tag) Matches(other Tag) bool {
	if t.Type != other.Type {
		return false
	}
	return t.ID == "" || t.ID == other.ID
}

func (t Tag) String() string {
	if t.ID == "" {
		return string(t.Type)
	}
	return fmt.Sprintf("%s:%s", t.Type, t.ID)
}

func matchesAny(invalidations []Tag, tags []Tag) bool {
	for _, inv := range invalidations {
		for _, tag := range tags {
			if inv.Matches(tag) {
				return true
			}
		}
	}
	return false
}
