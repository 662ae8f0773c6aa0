package core

import (
	"bytes"
	htmltmpl "html/template"
	"io/fs"
	"net/mail"
	"path"
	"strings"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

type (
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	ContextData struct {
		AppName         string
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
		// Wait blocks until every message passed to SendMessages so far is handled.
		Wait()
	}

	// EmailTemplates renders messages from `<name>.txt` and `<name>.gohtml` templates found in dir,
	// each one wrapped by the `_base` template of the same extension.
	EmailTemplates struct {
		fsys   fs.FS
		dir    string
		strict bool
		ctx    ContextData

		once sync.Once
		text map[string]*texttmpl.Template
		html map[string]*htmltmpl.Template
		err  error
	}
)

func NewEmailTemplates(fsys fs.FS, dir string, conf *Config) *EmailTemplates {
	return &EmailTemplates{
		fsys:   fsys,
		dir:    dir,
		strict: conf.Debug || conf.TestMode,
		ctx:    ContextData{AppName: conf.AppName, FrontendBaseURL: conf.FrontendBaseURL},
	}
}

func (t *EmailTemplates) parse() {
	t.text = make(map[string]*texttmpl.Template)
	t.html = make(map[string]*htmltmpl.Template)

	entries, err := fs.ReadDir(t.fsys, t.dir)
	if err != nil {
		t.err = errors.Wrap(err, "reading email templates")
		return
	}

	for _, entry := range entries {
		fname := entry.Name()
		ext := path.Ext(fname)
		if entry.IsDir() || strings.HasPrefix(fname, "_") {
			continue
		}
		name := strings.TrimSuffix(fname, ext)
		fp := path.Join(t.dir, fname)

		switch ext {
		case ".txt":
			tmpl, err := texttmpl.ParseFS(t.fsys, path.Join(t.dir, "_base.txt"), fp)
			if err != nil {
				t.err = errors.Wrapf(err, "parsing %s", fp)
				return
			}
			if t.strict {
				tmpl = tmpl.Option("missingkey=error")
			}
			t.text[name] = tmpl
		case ".gohtml":
			tmpl, err := htmltmpl.ParseFS(t.fsys, path.Join(t.dir, "_base.gohtml"), fp)
			if err != nil {
				t.err = errors.Wrapf(err, "parsing %s", fp)
				return
			}
			if t.strict {
				tmpl = tmpl.Option("missingkey=error")
			}
			t.html[name] = tmpl
		}
	}
}

// Render fills in the text and HTML contents of msg.
func (t *EmailTemplates) Render(msg *EmailMessage) error {
	if msg.BodyStr != "" {
		msg.TextContent = msg.BodyStr
	}
	if msg.TemplateName == "" {
		return nil
	}

	t.once.Do(t.parse) // only parse once, on first render
	if t.err != nil {
		return t.err
	}

	data := t.ctx
	data.Data = msg.TemplateData

	if tmpl, ok := t.text[msg.TemplateName]; ok && msg.BodyStr == "" {
		var buff bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buff, "base", data); err != nil {
			return errors.Wrap(err, "rendering text template")
		}
		msg.TextContent = buff.String()
	}
	if tmpl, ok := t.html[msg.TemplateName]; ok {
		var buff bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buff, "base", data); err != nil {
			return errors.Wrap(err, "rendering html template")
		}
		msg.HTMLContent = buff.String()
	}
	return nil
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return (m.TextContent != "") || (m.HTMLContent != "") }
