package service

import (
	"context"
	"fmt"

	"github.com/a2sh3r/commission-ledger/internal/apperrors"
	"github.com/a2sh3r/commission-ledger/internal/logger"
	"github.com/a2sh3r/commission-ledger/internal/models"
	"github.com/a2sh3r/commission-ledger/internal/repository"
	"go.uber.org/zap"
)

const DefaultMaxHierarchyDepth = 50

type HierarchyService interface {
	// AncestorsOf returns parents nearest first, at most maxDepth of them.
	AncestorsOf(ctx context.Context, userID int64, maxDepth int) ([]models.HierarchyNode, error)
	DescendantsOf(ctx context.Context, userID int64) ([]models.HierarchyNode, error)
	IsAncestor(ctx context.Context, ancestorID, userID int64) (bool, error)
}

type hierarchyService struct {
	repos    repository.Repositories
	maxDepth int
}

func NewHierarchyService(repos repository.Repositories, maxDepth int) HierarchyService {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxHierarchyDepth
	}
	return &hierarchyService{repos: repos, maxDepth: maxDepth}
}

func (s *hierarchyService) AncestorsOf(ctx context.Context, userID int64, maxDepth int) ([]models.HierarchyNode, error) {
	if maxDepth <= 0 || maxDepth > s.maxDepth {
		maxDepth = s.maxDepth
	}
	if _, err := s.repos.Accounts().Get(ctx, userID); err != nil {
		return nil, err
	}

	nodes, err := s.repos.Hierarchy().Ancestors(ctx, userID, maxDepth)
	if err != nil {
		return nil, err
	}
	if err := checkAcyclic(userID, nodes, "ancestors"); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (s *hierarchyService) DescendantsOf(ctx context.Context, userID int64) ([]models.HierarchyNode, error) {
	if _, err := s.repos.Accounts().Get(ctx, userID); err != nil {
		return nil, err
	}

	nodes, err := s.repos.Hierarchy().Descendants(ctx, userID, s.maxDepth)
	if err != nil {
		return nil, err
	}
	if err := checkAcyclic(userID, nodes, "descendants"); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (s *hierarchyService) IsAncestor(ctx context.Context, ancestorID, userID int64) (bool, error) {
	nodes, err := s.AncestorsOf(ctx, userID, s.maxDepth)
	if err != nil {
		return false, err
	}
	for _, n := range nodes {
		if n.AccountID == ancestorID {
			return true, nil
		}
	}
	return false, nil
}

// In a tree every node is reached once; a repeat means parent_id loops.
func checkAcyclic(start int64, nodes []models.HierarchyNode, walk string) error {
	seen := map[int64]bool{start: true}
	for _, n := range nodes {
		if seen[n.AccountID] {
			logger.Log.Error("cycle in referral hierarchy",
				zap.String("walk", walk),
				zap.Int64("start", start),
				zap.Int64("repeated", n.AccountID),
				zap.Int("depth", n.Depth))
			return fmt.Errorf("cycle through account %d: %w", n.AccountID, apperrors.ErrDataIntegrity)
		}
		seen[n.AccountID] = true
	}
	return nil
}
