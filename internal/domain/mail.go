package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

const MailTypeSchedulingResult = "scheduling_result"

type SchedulingResultMailData struct {
	JobID  string           `json:"jobID"`
	Table  string           `json:"table"`
	Result SchedulingResult `json:"result"`
}
