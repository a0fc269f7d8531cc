// Package mailer 把队列中的邮件消息转换成可以发送的邮件
package mailer

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strconv"

	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templateFS embed.FS

var ErrUnsupportedType = errors.New("不支持的邮件类型")

type message struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

type Composer struct {
	from      string
	templates *template.Template
}

func NewComposer(from string) (*Composer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"rating": func(v float64) string {
			return strconv.FormatFloat(v, 'f', -1, 64)
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Composer{
		from:      from,
		templates: tmpl,
	}, nil
}

// Compose 解析队列消息并构建邮件，返回的错误都不值得重试
func (c *Composer) Compose(body []byte) (*mail.Msg, error) {
	mailMessage := message{}
	if err := json.Unmarshal(body, &mailMessage); err != nil {
		return nil, fmt.Errorf("邮件信息反序列化失败: %w", err)
	}

	m := mail.NewMsg()
	if err := m.From(c.from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := m.To(mailMessage.To); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}

	switch mailMessage.Type {
	case domain.MailTypeSchedulingResult:
		data := domain.SchedulingResultMailData{}
		if err := json.Unmarshal(mailMessage.Data, &data); err != nil {
			return nil, fmt.Errorf("邮件数据反序列化失败: %w", err)
		}

		// 纯文本部分直接使用终端里看到的表格
		m.SetBodyString(mail.TypeTextPlain, data.Table)
		if err := m.AddAlternativeHTMLTemplate(c.templates.Lookup("scheduling_result_email.html"), data); err != nil {
			return nil, fmt.Errorf("无法设置邮件正文: %w", err)
		}
		m.Subject("节目排期 - 排期结果")
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mailMessage.Type)
	}

	return m, nil
}
