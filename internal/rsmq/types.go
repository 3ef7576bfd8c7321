package rsmq

// QueueAttributes mirrors the attribute set returned by every RSMQ
// implementation. Times are Unix seconds.
type QueueAttributes struct {
	VT         int64 `json:"vt" yaml:"vt"`
	Delay      int64 `json:"delay" yaml:"delay"`
	MaxSize    int64 `json:"maxsize" yaml:"maxsize"`
	TotalRecv  int64 `json:"totalrecv" yaml:"totalrecv"`
	TotalSent  int64 `json:"totalsent" yaml:"totalsent"`
	Created    int64 `json:"created" yaml:"created"`
	Modified   int64 `json:"modified" yaml:"modified"`
	Msgs       int64 `json:"msgs" yaml:"msgs"`
	HiddenMsgs int64 `json:"hiddenmsgs" yaml:"hiddenmsgs"`
}

// Message is a received message. FR (first receive) and Sent are Unix
// milliseconds.
type Message struct {
	ID      string `json:"id" yaml:"id"`
	Message string `json:"message" yaml:"message"`
	RC      int64  `json:"rc" yaml:"rc"`
	FR      int64  `json:"fr" yaml:"fr"`
	Sent    int64  `json:"sent" yaml:"sent"`
}

type CreateQueueRequest struct {
	QName   string
	VT      int64
	Delay   int64
	MaxSize int64
}

// SetQueueAttributesRequest updates only the non-nil fields.
type SetQueueAttributesRequest struct {
	QName   string
	VT      *int64
	Delay   *int64
	MaxSize *int64
}

// SendMessageRequest sends Message; a nil Delay uses the queue default.
type SendMessageRequest struct {
	QName   string
	Message string
	Delay   *int64
}

// ReceiveMessageRequest receives from QName; a nil VT uses the queue default.
type ReceiveMessageRequest struct {
	QName string
	VT    *int64
}
