package model

// BatchJob is the queue payload for an asynchronous ingestion batch. Files are
// staged on disk by the API before publishing; the worker re-resolves the
// principal at consume time so revoked permissions are honored.
type BatchJob struct {
	JobID           string         `json:"job_id"`
	PrincipalUserID uint           `json:"principal_user_id"`
	AccountID       uint           `json:"account_id"`
	CredentialID    uint           `json:"credential_id"`
	Technique       string         `json:"technique"`
	Files           []BatchJobFile `json:"files"`
}

type BatchJobFile struct {
	Path        string `json:"path"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}
