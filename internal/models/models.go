package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Field names shared by the wire format and both storage backends.
const (
	FieldID          = "_id"
	FieldHREmail     = "hr_email"
	FieldTitle       = "title"
	FieldCompany     = "company"
	FieldCompanyLogo = "company_logo"
	FieldJobID       = "jobId"
	FieldEmail       = "email"
	FieldStatus      = "status"
)

// JobDisplayFields are copied from a job onto the applications that reference it.
var JobDisplayFields = []string{FieldCompany, FieldTitle, FieldCompanyLogo}

// Document is a schemaless record as posted by clients.
type Document map[string]any

// Clone returns a shallow copy of d.
func (d Document) Clone() Document {
	out := make(Document, len(d)+1)
	for k, v := range d {
		out[k] = v
	}
	return out
}

// String returns d[key] when it holds a string.
func (d Document) String(key string) (string, bool) {
	v, ok := d[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Job is a job posting. Fields holds the posted payload verbatim; HREmail is
// an indexed projection of Fields["hr_email"] and never changes after insert.
type Job struct {
	ID        string    `gorm:"primaryKey;size:36"`
	CreatedAt time.Time
	UpdatedAt time.Time

	HREmail string   `gorm:"column:hr_email;index"`
	Fields  Document `gorm:"column:payload;serializer:json;type:jsonb"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return nil
}

// NewJob builds a Job from a client payload. A client-supplied _id is dropped.
func NewJob(doc Document) (*Job, error) {
	fields := doc.Clone()
	delete(fields, FieldID)

	job := &Job{Fields: fields}
	if v, ok := fields[FieldHREmail]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("field %q must be a string", FieldHREmail)
		}
		job.HREmail = s
	}
	return job, nil
}

// Document renders the job as it is returned to clients.
func (j Job) Document() Document {
	doc := j.Fields.Clone()
	doc[FieldID] = j.ID
	return doc
}

func (j Job) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Document())
}

func (j *Job) UnmarshalJSON(b []byte) error {
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	job, err := NewJob(doc)
	if err != nil {
		return err
	}
	*j = *job
	return nil
}

// Application is a job application. Status is kept apart from Fields because
// it is the only attribute that changes after insert.
type Application struct {
	ID        string    `gorm:"primaryKey;size:36"`
	CreatedAt time.Time
	UpdatedAt time.Time

	JobID  string   `gorm:"column:job_id;index"`
	Email  string   `gorm:"index"`
	Status *string  `gorm:"column:status"`
	Fields Document `gorm:"column:payload;serializer:json;type:jsonb"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// NewApplication builds an Application from a client payload.
func NewApplication(doc Document) (*Application, error) {
	fields := doc.Clone()
	delete(fields, FieldID)

	app := &Application{Fields: fields}
	for _, key := range []string{FieldJobID, FieldEmail, FieldStatus} {
		v, ok := fields[key]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("field %q must be a string", key)
		}
		switch key {
		case FieldJobID:
			app.JobID = s
		case FieldEmail:
			app.Email = s
		case FieldStatus:
			app.Status = &s
			delete(fields, FieldStatus)
		}
	}
	return app, nil
}

func (a Application) Document() Document {
	doc := a.Fields.Clone()
	doc[FieldID] = a.ID
	if a.Status != nil {
		doc[FieldStatus] = *a.Status
	}
	return doc
}

func (a Application) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Document())
}

func (a *Application) UnmarshalJSON(b []byte) error {
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	app, err := NewApplication(doc)
	if err != nil {
		return err
	}
	*a = *app
	return nil
}
