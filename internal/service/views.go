package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/dealership-contracts/internal/model"
)

type ItemRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type CarRef struct {
	ID        uuid.UUID `json:"id"`
	CarNumber string    `json:"carNumber"`
	Model     string    `json:"model"`
}

type MeetingView struct {
	Date   time.Time `json:"date"`
	Alarms []string  `json:"alarms"`
}

type DocumentView struct {
	ID       uuid.UUID `json:"id"`
	FileName string    `json:"fileName"`
}

type ContractView struct {
	ID             uuid.UUID            `json:"id"`
	Status         model.ContractStatus `json:"status"`
	ContractPrice  int64                `json:"contractPrice"`
	ResolutionDate *time.Time           `json:"resolutionDate"`
	Car            CarRef               `json:"car"`
	Customer       ItemRef              `json:"customer"`
	User           ItemRef              `json:"user"`
	Meetings       []MeetingView        `json:"meetings"`
	Documents      []DocumentView       `json:"documents"`
}

// ContractBucket is one status group of the contract list, shaped for
// direct consumption by the board UI.
type ContractBucket struct {
	TotalItemCount int            `json:"totalItemCount"`
	Data           []ContractView `json:"data"`
}

func newContractView(c model.Contract) ContractView {
	view := ContractView{
		ID:             c.ID,
		Status:         c.Status,
		ContractPrice:  c.ContractPrice,
		ResolutionDate: c.ResolutionDate,
		Car: CarRef{
			ID:        c.Car.ID,
			CarNumber: c.Car.CarNumber,
			Model:     c.Car.CarModel.Model,
		},
		Customer: ItemRef{ID: c.Customer.ID, Name: c.Customer.Name},
		User:     ItemRef{ID: c.User.ID, Name: c.User.Name},
		Meetings: make([]MeetingView, 0, len(c.Meetings)),
	}
	for _, m := range c.Meetings {
		view.Meetings = append(view.Meetings, MeetingView{
			Date:   m.Date,
			Alarms: append([]string(nil), m.Alarms...),
		})
	}
	view.Documents = make([]DocumentView, 0, len(c.Documents))
	for _, d := range c.Documents {
		view.Documents = append(view.Documents, DocumentView{ID: d.ID, FileName: d.FileName})
	}
	return view
}
