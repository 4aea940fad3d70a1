package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"ITOpsDashboard/internal/model"
)

// InsuredRepo хранилище застрахованных компьютеров
type InsuredRepo interface {
	ListInsured(ctx context.Context) ([]model.InsuredComputer, error)
	CreateInsured(ctx context.Context, c model.InsuredComputer) (*model.InsuredComputer, error)
}

// InsuredRow запись с классификацией сроков на момент запроса
type InsuredRow struct {
	model.InsuredComputer
	PolicyStatus   model.ExpiryStatus  `json:"policy_status"`
	WarrantyStatus *model.ExpiryStatus `json:"warranty_status"`
}

// InsuredList список и сводка
type InsuredList struct {
	Computers    []InsuredRow `json:"computers"`
	Total        int          `json:"total"`
	WithWarranty int          `json:"with_warranty"`
	Expiring     int          `json:"expiring"`
	Expired      int          `json:"expired"`
}

// CreateInsuredInput данные нового полиса
type CreateInsuredInput struct {
	SerialNumber   string  `json:"serial_number"`
	PolicyNumber   string  `json:"policy_number"`
	PersonName     string  `json:"person_name"`
	WarrantyExpiry *string `json:"warranty_expiry"`
	PolicyExpiry   string  `json:"policy_expiry"`
}

// InsuredService полисы страхования компьютеров
type InsuredService struct {
	repo     InsuredRepo
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

// NewInsuredService создаёт сервис полисов
func NewInsuredService(r InsuredRepo, n Notifier, log *slog.Logger) *InsuredService {
	return &InsuredService{repo: r, notifier: n, log: log, now: time.Now}
}

// List возвращает полисы со статусами сроков; статусы только для отображения
func (s *InsuredService) List(ctx context.Context) (*InsuredList, error) {
	computers, err := s.repo.ListInsured(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	res := &InsuredList{Computers: make([]InsuredRow, 0, len(computers)), Total: len(computers)}
	for _, c := range computers {
		row := InsuredRow{InsuredComputer: c, PolicyStatus: model.ClassifyExpiry(c.PolicyExpiry, now)}
		if c.WarrantyExpiry != nil {
			st := model.ClassifyExpiry(*c.WarrantyExpiry, now)
			row.WarrantyStatus = &st
			res.WithWarranty++
		}
		switch row.PolicyStatus {
		case model.ExpiryExpiring:
			res.Expiring++
		case model.ExpiryExpired:
			res.Expired++
		}
		res.Computers = append(res.Computers, row)
	}
	return res, nil
}

// Create добавляет полис; серийный номер, номер полиса, сотрудник и дата окончания обязательны
func (s *InsuredService) Create(ctx context.Context, in CreateInsuredInput) (*model.InsuredComputer, error) {
	v := validator{}
	c := model.InsuredComputer{
		SerialNumber: strings.TrimSpace(in.SerialNumber),
		PolicyNumber: strings.TrimSpace(in.PolicyNumber),
		PersonName:   strings.TrimSpace(in.PersonName),
	}
	if c.SerialNumber == "" {
		v.add("serial_number", "required")
	}
	if c.PolicyNumber == "" {
		v.add("policy_number", "required")
	}
	if c.PersonName == "" {
		v.add("person_name", "required")
	}
	if strings.TrimSpace(in.PolicyExpiry) == "" {
		v.add("policy_expiry", "required")
	} else if d, err := parseDate(in.PolicyExpiry); err != nil {
		v.add("policy_expiry", "expected YYYY-MM-DD")
	} else {
		c.PolicyExpiry = d
	}
	w, err := parseOptionalDate(in.WarrantyExpiry)
	if err != nil {
		v.add("warranty_expiry", "expected YYYY-MM-DD")
	}
	c.WarrantyExpiry = w
	if err := v.err(); err != nil {
		return nil, err
	}
	created, err := s.repo.CreateInsured(ctx, c)
	if err != nil {
		return nil, err
	}
	publishChange(s.notifier, s.log, model.ResourceInsured, model.ActionInsert, c.SerialNumber)
	return created, nil
}
