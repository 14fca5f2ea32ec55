package fakeapi

import (
	"fmt"
	"time"

	"github.com/jrsteele09/clinic-console/clinicmodel"
	"github.com/jrsteele09/clinic-console/users"
)

// Seed accounts. Passwords match the demo logins of the console.
const (
	AdminEmail    = "admin@clinic.com"
	AdminPassword = "admin"

	DoctorEmail    = "doctor@clinic.com"
	DoctorPassword = "doctor"

	NurseEmail    = "nurse@clinic.com"
	NursePassword = "nurse"
)

func seedTime(day int) time.Time {
	return time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC)
}

type seedUser struct {
	user     users.User
	password string
}

func (s *Server) seed() error {
	accounts := []seedUser{
		{users.User{ID: "1", Email: AdminEmail, FirstName: "Admin", LastName: "User", Role: users.RoleAdmin}, AdminPassword},
		{users.User{ID: "2", Email: DoctorEmail, FirstName: "Dr. John", LastName: "Smith", Role: users.RoleDoctor}, DoctorPassword},
		{users.User{ID: "3", Email: NurseEmail, FirstName: "Mary", LastName: "Jones", Role: users.RoleNurse}, NursePassword},
	}
	for _, account := range accounts {
		hash, err := users.HashPassword(account.password)
		if err != nil {
			return fmt.Errorf("hashing password for %s: %w", account.user.Email, err)
		}
		u := account.user
		u.PasswordHash = hash
		u.IsActive = true
		u.CreatedAt, u.UpdatedAt = seedTime(1), seedTime(1)
		if err := s.users.Upsert(&u); err != nil {
			return fmt.Errorf("seeding user %s: %w", u.Email, err)
		}
	}

	patients := []clinicmodel.Patient{
		{
			FirstName: "Jane", LastName: "Doe", DateOfBirth: "1990-01-01", Gender: clinicmodel.GenderFemale,
			Phone: "123-456-7890", Email: "jane.doe@email.com", Address: "123 Main St",
			EmergencyContact: "John Doe - 098-765-4321", MedicalHistory: "No significant medical history",
			Allergies: "None", Status: clinicmodel.PatientActive, CreatedAt: seedTime(1), UpdatedAt: seedTime(1),
		},
		{
			FirstName: "Bob", LastName: "Johnson", DateOfBirth: "1985-05-15", Gender: clinicmodel.GenderMale,
			Phone: "234-567-8901", Email: "bob.johnson@email.com", Address: "456 Oak Ave",
			EmergencyContact: "Mary Johnson - 987-654-3210", MedicalHistory: "Diabetes Type 2",
			Allergies: "Penicillin", Status: clinicmodel.PatientActive, CreatedAt: seedTime(2), UpdatedAt: seedTime(2),
		},
	}
	for _, p := range patients {
		s.data.patients.insert(func(id string) clinicmodel.Patient {
			p.ID = id
			return p
		})
	}

	appointments := []clinicmodel.Appointment{
		{
			PatientID: "1", DoctorID: "2", AppointmentDate: "2024-01-15", AppointmentTime: "09:00", Duration: 30,
			Type: clinicmodel.AppointmentConsultation, Status: clinicmodel.AppointmentScheduled,
			Notes: "Regular checkup", CreatedAt: seedTime(10), UpdatedAt: seedTime(10),
		},
		{
			PatientID: "2", DoctorID: "2", AppointmentDate: "2024-01-16", AppointmentTime: "10:30", Duration: 45,
			Type: clinicmodel.AppointmentFollowUp, Status: clinicmodel.AppointmentConfirmed,
			Notes: "Follow-up for diabetes management", CreatedAt: seedTime(11), UpdatedAt: seedTime(11),
		},
	}
	for _, a := range appointments {
		s.data.appointments.insert(func(id string) clinicmodel.Appointment {
			a.ID = id
			return a
		})
	}

	s.data.records.insert(func(id string) clinicmodel.MedicalRecord {
		return clinicmodel.MedicalRecord{
			ID: id, PatientID: "2", DoctorID: "2", Diagnosis: "Diabetes Type 2",
			Symptoms: "Increased thirst, fatigue", Treatment: "Metformin, diet plan",
			CreatedAt: seedTime(12), UpdatedAt: seedTime(12),
		}
	})
	s.data.diagnoses.insert(func(id string) clinicmodel.Diagnosis {
		return clinicmodel.Diagnosis{
			ID: id, PatientID: "2", DoctorID: "2", Condition: "Diabetes Type 2",
			Description: "Managed with oral medication", Severity: clinicmodel.SeverityModerate,
			Status: clinicmodel.DiagnosisChronic, CreatedAt: seedTime(12), UpdatedAt: seedTime(12),
		}
	})

	prescription := s.data.prescriptions.insert(func(id string) clinicmodel.Prescription {
		return clinicmodel.Prescription{
			ID: id, PatientID: "2", DoctorID: "2", PrescriptionDate: "2024-01-12",
			Status: clinicmodel.PrescriptionApproved, Notes: "Diabetes medication",
			CreatedAt: seedTime(12), UpdatedAt: seedTime(12),
		}
	})
	s.data.items.insert(func(id string) prescriptionItem {
		return prescriptionItem{
			PrescriptionItem: clinicmodel.PrescriptionItem{
				ID: id, MedicationName: "Metformin", Dosage: "500mg", Frequency: "twice daily",
				Duration: "30 days", Instructions: "Take with meals", Quantity: 60,
			},
			prescriptionID: prescription.ID,
		}
	})

	s.data.setStats(clinicmodel.Stats{
		TotalPatients:      2,
		TotalAppointments:  2,
		TotalPrescriptions: 1,
		ActiveUsers:        2,
		MonthlyStats: []clinicmodel.MonthlyStats{
			{Month: "January 2024", Patients: 2, Appointments: 2, Prescriptions: 1},
		},
	})
	return nil
}
