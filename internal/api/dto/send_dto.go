package dto

type SendRequest struct {
	JobID string `json:"jobId" binding:"required,uuid"`
}

type BulkSendRequest struct {
	Status string `json:"status" binding:"omitempty,jobstatus"`
}
