package files

import "time"

// FileResponse is the outward-facing representation of a file record.
type FileResponse struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	Semester    string    `json:"semester"`
	Course      string    `json:"course"`
	Description string    `json:"description,omitempty"`
	MimeType    string    `json:"mimeType"`
	SizeBytes   int64     `json:"sizeBytes"`
	UploadedAt  time.Time `json:"uploadedAt"`
	Uploader    RefName   `json:"uploader"`
	Institution RefName   `json:"institution"`
}

// RefName is a reference with its display name resolved.
type RefName struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toResponse(d Detail) FileResponse {
	return FileResponse{
		ID:          d.ID,
		FileName:    d.FileName,
		Semester:    d.Semester,
		Course:      d.Course,
		Description: d.Description,
		MimeType:    d.MimeType,
		SizeBytes:   d.SizeBytes,
		UploadedAt:  d.CreatedAt,
		Uploader:    RefName{ID: d.AccountID, Name: d.UploaderName},
		Institution: RefName{ID: d.InstitutionID, Name: d.InstitutionName},
	}
}
