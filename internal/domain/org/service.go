package org

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) ListHeadquarters(ctx context.Context) ([]Headquarters, error) {
	return s.Store.ListHeadquarters(ctx)
}

func (s *Service) CreateHeadquarters(ctx context.Context, in HeadquartersInput) (*Headquarters, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrInvalidInput
	}
	id, err := s.Store.InsertHeadquarters(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.Store.GetHeadquarters(ctx, id)
}

func (s *Service) ListDepartments(ctx context.Context, headquartersID string) ([]Department, error) {
	return s.Store.ListDepartments(ctx, headquartersID)
}

func (s *Service) CreateDepartment(ctx context.Context, in DepartmentInput) (*Department, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.HeadquartersID) == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.Store.GetHeadquarters(ctx, in.HeadquartersID); err != nil {
		return nil, err
	}
	id, err := s.Store.InsertDepartment(ctx, in)
	if err != nil {
		return nil, err
	}
	return &Department{ID: id, Name: in.Name, HeadquartersID: in.HeadquartersID}, nil
}
