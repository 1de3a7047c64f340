package homework

import "fmt"

const (
	StatusApproved  = "approved"
	StatusReviewing = "reviewing"
	StatusRejected  = "rejected"

	KeyName   = "homework_name"
	KeyStatus = "status"
)

var verdicts = map[string]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Verdict returns the human text for a verdict code.
func Verdict(status string) (string, bool) {
	v, ok := verdicts[status]
	return v, ok
}

// Format builds the notification text for one homework record.
func Format(record any) (string, error) {
	rec, _ := record.(map[string]any)
	if len(rec) == 0 {
		return "", newError(KindMissingField, "homework record is empty")
	}
	name, _ := rec[KeyName].(string)
	if name == "" {
		return "", newError(KindMissingField, "homework record has no %q", KeyName)
	}
	status, _ := rec[KeyStatus].(string)
	verdict, ok := Verdict(status)
	if !ok {
		return "", newError(KindUnknownStatus, "homework %q has unknown status %q", name, status)
	}
	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", name, verdict), nil
}

// Name returns the homework_name of a record for log context, or "".
func Name(record any) string {
	rec, _ := record.(map[string]any)
	name, _ := rec[KeyName].(string)
	return name
}
