package report

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
)

const digestTemplate = "flagged_digest"

// NotifyAdvisors emails every advisor the list of their advisees flagged for consecutive absences.
// Advisors without a known email address are skipped.
func (svc *Service) NotifyAdvisors(ctx context.Context, minConsecutive int) (NotifySummary, error) {
	report, err := svc.ConsecutiveAbsences(ctx, FlaggedFilter{Min: minConsecutive})
	if err != nil {
		return NotifySummary{}, err
	}

	type group struct {
		email    string
		students []attendance.FlaggedStudent
	}
	groups := make(map[string]*group)
	names := make([]string, 0)
	for _, s := range report.Data {
		name := core.FirstNonEmpty(strings.TrimSpace(s.AdvisorName), svc.analyzer.Options().UnspecifiedLabel)
		g, ok := groups[name]
		if !ok {
			g = &group{}
			groups[name] = g
			names = append(names, name)
		}
		if g.email == "" {
			g.email = strings.TrimSpace(s.AdvisorEmail)
		}
		g.students = append(g.students, s)
	}
	svc.analyzer.SortLabels(names)

	summary := NotifySummary{Advisors: len(names), Students: report.Total}
	messages := make([]*core.EmailMessage, 0, len(names))
	for _, name := range names {
		g := groups[name]
		addr, err := mail.ParseAddress(g.email)
		if g.email == "" || err != nil {
			summary.Skipped++
			continue
		}
		if addr.Name == "" {
			addr.Name = name
		}
		messages = append(messages, &core.EmailMessage{
			To:           []mail.Address{*addr},
			Subject:      fmt.Sprintf("%d advisees with %d+ consecutive absences", len(g.students), report.MinConsecutive),
			TemplateName: digestTemplate,
			TemplateData: Digest{
				Advisor:        name,
				MinConsecutive: report.MinConsecutive,
				Students:       g.students,
			},
		})
	}

	if len(messages) > 0 {
		svc.mailer.SendMessages(messages...)
		svc.mailer.Wait()
	}
	summary.Sent = len(messages)
	svc.logger.Info(fmt.Sprintf("sent %d advisor digests", summary.Sent), map[string]interface{}{
		"advisors": summary.Advisors,
		"skipped":  summary.Skipped,
		"students": summary.Students,
	})
	return summary, nil
}
