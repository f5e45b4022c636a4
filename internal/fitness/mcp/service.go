package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/2beens/fitpoints/internal/fitness/exercises"
	"github.com/2beens/fitpoints/internal/fitness/kpi"
	"github.com/2beens/fitpoints/pkg"
)

type exercisesLister interface {
	List(ctx context.Context) ([]exercises.Exercise, error)
}

type kpiService interface {
	RangeSummary(ctx context.Context, userID int, w kpi.Window) (*kpi.Summary, error)
	HistoricalWeeks(ctx context.Context, userID, weeksBack int, asOf pkg.Date) ([]kpi.WeekStat, error)
}

// contextService is what the tool handlers need. Every user scoped call
// takes the user the MCP session is bound to.
type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	ListExercises(ctx context.Context) ([]exercises.Exercise, error)
	RangeSummary(ctx context.Context, userID int, w kpi.Window) (*kpi.Summary, error)
	HistoricalWeeks(ctx context.Context, userID, weeksBack int, asOf pkg.Date) ([]kpi.WeekStat, error)
}

type ContextService struct {
	schema    SchemaRepo
	exercises exercisesLister
	kpi       kpiService
}

func NewContextService(schemaRepo SchemaRepo, exercisesRepo exercisesLister, kpiService kpiService) *ContextService {
	return &ContextService{
		schema:    schemaRepo,
		exercises: exercisesRepo,
		kpi:       kpiService,
	}
}

// GetSchema renders the fitpoints tables as markdown, one table per section.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	cols, err := s.schema.GetFitpointsColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatSchema(cols), nil
}

func formatSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# Fitpoints DB Schema\n\nNo fitpoints tables found in the database.\n"
	}

	byTable := make(map[string][]SchemaColumn)
	for _, c := range cols {
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}

	tableOrder := make([]string, 0, len(byTable))
	for t := range byTable {
		tableOrder = append(tableOrder, t)
	}
	sort.Strings(tableOrder)

	var b strings.Builder
	b.WriteString("# Fitpoints DB Schema\n\n")
	b.WriteString("Tables: ")
	b.WriteString(strings.Join(tableOrder, ", "))
	b.WriteString(" (schema: public).\n\n")

	for _, tableName := range tableOrder {
		b.WriteString("## ")
		b.WriteString(tableName)
		b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		for _, c := range byTable[tableName] {
			def := "-"
			if c.ColumnDef != nil && *c.ColumnDef != "" {
				def = *c.ColumnDef
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def))
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}

func (s *ContextService) ListExercises(ctx context.Context) ([]exercises.Exercise, error) {
	return s.exercises.List(ctx)
}

func (s *ContextService) RangeSummary(ctx context.Context, userID int, w kpi.Window) (*kpi.Summary, error) {
	return s.kpi.RangeSummary(ctx, userID, w)
}

func (s *ContextService) HistoricalWeeks(ctx context.Context, userID, weeksBack int, asOf pkg.Date) ([]kpi.WeekStat, error) {
	return s.kpi.HistoricalWeeks(ctx, userID, weeksBack, asOf)
}
