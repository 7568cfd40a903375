package domain

// ActorType identifies who (or what) performed an audited action.
type ActorType string

const (
	ActorExternalApplicant ActorType = "ExternalApplicant"
	ActorFcStaff           ActorType = "FcStaffMember"
	ActorSystem            ActorType = "System"
)

// FileUploadReason keys the upload validation rules: each reason carries its own
// allow-list of file types in configuration.
type FileUploadReason string

const (
	UploadReasonSupportingDocument FileUploadReason = "SupportingDocument"
	UploadReasonAgentAuthorityForm FileUploadReason = "AgentAuthorityForm"
	UploadReasonEiaAttachment      FileUploadReason = "EiaAttachment"
)
