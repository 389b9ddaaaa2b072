package respond

import "regexp"

// redaction masks one kind of secret in an error message.
type redaction struct {
	pattern *regexp.Regexp
	replace string
}

var redactions = []redaction{
	// DSN 内のパスワード
	{regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`), "://$1:****@"},
	// key=value 形式の DSN
	{regexp.MustCompile(`(?i)(password=)\S+`), "${1}****"},
	// Bearer トークン / JWT
	{regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9\-_.]+`), "Bearer ****"},
	{regexp.MustCompile(`eyJ[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+`), "****"},
	// 購読者・コメント投稿者のメールアドレス (unique 違反の detail などに出る)
	{regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`), "****@****"},
}

// SanitizeError returns err's message with credentials, tokens and email
// addresses masked, for log lines and non-production error details.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, r := range redactions {
		msg = r.pattern.ReplaceAllString(msg, r.replace)
	}
	return msg
}
