// README: Fleet service: driver registration/approval and car ownership.
package fleet

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"unipool/internal/types"
)

var (
	ErrNotFound     = errors.New("fleet entity not found")
	ErrInvalidInput = errors.New("invalid fleet input")
	ErrDatabase     = errors.New("fleet storage failure")
)

type Store interface {
	CreateDriver(ctx context.Context, d Driver) (types.ID, error)
	Driver(ctx context.Context, id types.ID) (Driver, error)
	SetApproved(ctx context.Context, id types.ID, approved bool) error

	CreateCar(ctx context.Context, c Car) (types.ID, error)
	Car(ctx context.Context, id types.ID) (Car, error)
	CarsByDriver(ctx context.Context, driverID types.ID) ([]Car, error)
}

type Service struct {
	store Store
	log   *slog.Logger
}

func NewService(store Store, log *slog.Logger) *Service {
	return &Service{store: store, log: log}
}

type RegisterDriverCommand struct {
	Name          string
	Email         string
	PhoneNumber   string
	LicenseNumber string
	Gender        string
}

// RegisterDriver creates an unapproved driver. Approval happens separately.
func (s *Service) RegisterDriver(ctx context.Context, cmd RegisterDriverCommand) (Driver, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.LicenseNumber = strings.TrimSpace(cmd.LicenseNumber)
	if cmd.Name == "" || cmd.LicenseNumber == "" {
		return Driver{}, ErrInvalidInput
	}
	d := Driver{
		Name:          cmd.Name,
		Email:         strings.TrimSpace(cmd.Email),
		PhoneNumber:   strings.TrimSpace(cmd.PhoneNumber),
		LicenseNumber: cmd.LicenseNumber,
		Gender:        cmd.Gender,
	}
	id, err := s.store.CreateDriver(ctx, d)
	if err != nil {
		return Driver{}, s.storeErr("create driver", err)
	}
	d.ID = id
	return d, nil
}

func (s *Service) Driver(ctx context.Context, id types.ID) (Driver, error) {
	d, err := s.store.Driver(ctx, id)
	if err != nil {
		return Driver{}, s.storeErr("get driver", err)
	}
	return d, nil
}

// ApproveDriver marks the driver as allowed to offer rides.
func (s *Service) ApproveDriver(ctx context.Context, id types.ID) (Driver, error) {
	d, err := s.store.Driver(ctx, id)
	if err != nil {
		return Driver{}, s.storeErr("get driver", err)
	}
	if d.Approved {
		return d, nil
	}
	if err := s.store.SetApproved(ctx, id, true); err != nil {
		return Driver{}, s.storeErr("approve driver", err)
	}
	d.Approved = true
	if s.log != nil {
		s.log.Info("driver approved", "driver_id", id)
	}
	return d, nil
}

type RegisterCarCommand struct {
	DriverID    types.ID
	Model       string
	Color       string
	PlateNumber string
	TotalSeats  int
}

func (s *Service) RegisterCar(ctx context.Context, cmd RegisterCarCommand) (Car, error) {
	cmd.Model = strings.TrimSpace(cmd.Model)
	cmd.PlateNumber = strings.TrimSpace(cmd.PlateNumber)
	if cmd.Model == "" || cmd.PlateNumber == "" || cmd.TotalSeats < 1 {
		return Car{}, ErrInvalidInput
	}
	if _, err := s.store.Driver(ctx, cmd.DriverID); err != nil {
		return Car{}, s.storeErr("get driver", err)
	}
	c := Car{
		DriverID:    cmd.DriverID,
		Model:       cmd.Model,
		Color:       cmd.Color,
		PlateNumber: cmd.PlateNumber,
		TotalSeats:  cmd.TotalSeats,
	}
	id, err := s.store.CreateCar(ctx, c)
	if err != nil {
		return Car{}, s.storeErr("create car", err)
	}
	c.ID = id
	return c, nil
}

func (s *Service) Car(ctx context.Context, id types.ID) (Car, error) {
	c, err := s.store.Car(ctx, id)
	if err != nil {
		return Car{}, s.storeErr("get car", err)
	}
	return c, nil
}

func (s *Service) CarsByDriver(ctx context.Context, driverID types.ID) ([]Car, error) {
	cs, err := s.store.CarsByDriver(ctx, driverID)
	if err != nil {
		return nil, s.storeErr("list cars", err)
	}
	return cs, nil
}

func (s *Service) storeErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
		return err
	}
	if s.log != nil {
		s.log.Error("fleet store error", "op", op, "error", err)
	}
	return ErrDatabase
}
