package visitors

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tablefare/cateringbackend/lib/myerrors"
	"github.com/tablefare/cateringbackend/lib/mylog"
	"github.com/tablefare/cateringbackend/lib/mystore"
	"github.com/tablefare/cateringbackend/lib/mytime"
	"github.com/tablefare/cateringbackend/lib/myuuid"
)

type service struct {
	visitStore mystore.Store[Visit]
	nower      mytime.Nower
	uuider     myuuid.UUIDer
	logger     mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(visitStore mystore.Store[Visit], nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger) *service {
	return &service{
		visitStore: visitStore,
		nower:      nower,
		uuider:     uuider,
		logger:     logger,
	}
}

func (s *service) registerVisit(c context.Context, req visitRequest) (Visit, error) {
	if strings.TrimSpace(req.Path) == "" {
		return Visit{}, myerrors.NewInvalidInputErrorf("path is required")
	}

	visit := Visit{
		UID:       s.uuider.Create(),
		Path:      req.Path,
		Referrer:  req.Referrer,
		UserAgent: req.UserAgent,
		CreatedAt: s.nower.Now(),
	}

	err := s.visitStore.Put(c, visit.UID, visit)
	if err != nil {
		return Visit{}, myerrors.NewInternalError(fmt.Errorf("error storing visit: %s", err))
	}

	return visit, nil
}

func (s *service) listVisits(c context.Context) ([]Visit, error) {
	visits, err := s.visitStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error fetching visits: %s", err))
	}

	sort.Slice(visits, func(i, j int) bool {
		return visits[i].CreatedAt.After(visits[j].CreatedAt)
	})

	return visits, nil
}

func (s *service) summarizeVisits(c context.Context) ([]VisitSummary, error) {
	visits, err := s.visitStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error fetching visits: %s", err))
	}

	countPerPath := map[string]int{}
	for _, visit := range visits {
		countPerPath[visit.Path]++
	}

	summaries := make([]VisitSummary, 0, len(countPerPath))
	for path, count := range countPerPath {
		summaries = append(summaries, VisitSummary{Path: path, Count: count})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Count != summaries[j].Count {
			return summaries[i].Count > summaries[j].Count
		}
		return summaries[i].Path < summaries[j].Path
	})

	return summaries, nil
}
