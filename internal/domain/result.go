package domain

// ChannelOutcome records one delivery attempt for one channel. It lives only
// for the duration of a dispatch call and is folded into the final result.
type ChannelOutcome struct {
	Channel   Channel
	Delivered bool
	Reason    string
	MessageID string
}

// DeliveredOutcome marks a successful attempt.
func DeliveredOutcome(channel Channel, messageID string) ChannelOutcome {
	return ChannelOutcome{Channel: channel, Delivered: true, MessageID: messageID}
}

// FailedOutcome marks a failed attempt with its reason. The failure is
// advisory: it never flips the overall dispatch result.
func FailedOutcome(channel Channel, reason string) ChannelOutcome {
	return ChannelOutcome{Channel: channel, Reason: reason}
}

// DispatchResult is the aggregate response for one dispatch call. Success
// reflects artifact creation only; channel outcomes are reported but never
// turn a rendered invoice into a failure. Created fresh per request and
// never persisted.
type DispatchResult struct {
	Success       bool
	InvoiceNumber string
	ArtifactID    string
	DownloadURL   string
	Outcomes      []ChannelOutcome
}

// AggregateResult folds the renderer outcome and per-channel outcomes into
// the response returned to the caller.
func AggregateResult(invoiceNumber, artifactID, downloadURL string, outcomes []ChannelOutcome) *DispatchResult {
	return &DispatchResult{
		Success:       artifactID != "",
		InvoiceNumber: invoiceNumber,
		ArtifactID:    artifactID,
		DownloadURL:   downloadURL,
		Outcomes:      outcomes,
	}
}
