package services

import (
	"context"
	"fmt"
	"time"

	"scadenze/internal/core"
	"scadenze/internal/log"
	"scadenze/internal/storage"
)

// ScheduleProcessor materializes due occurrences: it walks every pending
// scheduled template and completes each uncompleted due date up to the
// processing day, spawning a completed instance transaction per date.
type ScheduleProcessor struct {
	repo   *storage.MemoryRepository
	ledger *LedgerService
	logger *log.Logger
}

// NewScheduleProcessor creates a processor over the given repository and
// ledger.
func NewScheduleProcessor(repo *storage.MemoryRepository, ledger *LedgerService, logger *log.Logger) *ScheduleProcessor {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ScheduleProcessor{
		repo:   repo,
		ledger: ledger,
		logger: logger.WithComponent(log.ComponentProcessor),
	}
}

// ProcessDue completes every occurrence due on or before now across all
// templates and stamps each processed template's LastProcessed. Failures
// on one template are logged and skipped; the rest still process.
func (p *ScheduleProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.repo == nil || p.ledger == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}
	today := core.DateOf(now)

	templates, err := p.repo.ListTemplates(ctx)
	if err != nil {
		return 0, fmt.Errorf("list templates: %w", err)
	}

	p.logger.InfoContext(ctx, "processing due schedules",
		log.FieldTemplateCount, len(templates),
		log.FieldProcessingDate, today.String())

	processed := 0
	for _, template := range templates {
		due := dueDates(template, today)
		if len(due) == 0 {
			continue
		}

		completedCount := 0
		for _, d := range due {
			if _, err := p.ledger.CompleteOccurrence(ctx, template.ID, d); err != nil {
				p.logger.ErrorContext(ctx, "failed to complete occurrence",
					log.FieldTemplateID, template.ID.String(),
					log.FieldDueDate, d.String(),
					log.FieldError, err)
				continue
			}
			processed++
			completedCount++
		}
		if completedCount == 0 {
			continue
		}

		if err := p.stampLastProcessed(ctx, template, today); err != nil {
			p.logger.ErrorContext(ctx, "failed to update last processed date",
				log.FieldTemplateID, template.ID.String(),
				log.FieldError, err)
			// instances were created; keep going
		}

		p.logger.InfoContext(ctx, "materialized template occurrences",
			log.FieldTemplateID, template.ID.String(),
			log.FieldTitle, template.Title,
			log.FieldFrequency, string(template.Schedule.Frequency),
			log.FieldProcessedCount, completedCount)
	}

	p.logger.InfoContext(ctx, "schedule processing complete",
		log.FieldProcessedCount, processed)
	return processed, nil
}

// dueDates returns the template's uncompleted due dates up to and
// including today.
func dueDates(template *core.Transaction, today core.Date) []core.Date {
	if !template.IsTemplate() {
		return nil
	}
	start := template.Schedule.AnchorDate
	if start.After(today) {
		return nil
	}
	var out []core.Date
	for _, d := range GenerateOccurrences(template.Schedule, start, today) {
		if !template.OccurrenceCompleted(d) {
			out = append(out, d)
		}
	}
	return out
}

func (p *ScheduleProcessor) stampLastProcessed(ctx context.Context, template *core.Transaction, today core.Date) error {
	// reload: CompleteOccurrence rewrote the template's completion set
	fresh, err := p.repo.GetTransaction(ctx, template.ID)
	if err != nil {
		return err
	}
	if fresh.Schedule == nil {
		return core.ErrNotTemplate
	}
	fresh.Schedule.LastProcessed = today
	return p.repo.SaveTransaction(ctx, fresh)
}
