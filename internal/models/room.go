package models

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// RoomSeed describes one room of the static inventory as it appears in config.
type RoomSeed struct {
	Number int     `yaml:"number" json:"number"`
	Type   string  `yaml:"type" json:"type"`
	Price  float64 `yaml:"price" json:"price"`
}

// Room is a single bookable unit. Number, type and price never change after
// construction; the availability flag is shared by every holder of the pointer.
type Room struct {
	number        int
	roomType      string
	pricePerNight float64

	mu        sync.RWMutex
	available bool
}

// RoomInfo is a read-only snapshot of a room.
type RoomInfo struct {
	Number        int     `json:"number"`
	Type          string  `json:"type"`
	PricePerNight float64 `json:"price_per_night"`
	Available     bool    `json:"available"`
}

// NewRoom creates an available room.
func NewRoom(number int, roomType string, pricePerNight float64) *Room {
	return &Room{
		number:        number,
		roomType:      roomType,
		pricePerNight: pricePerNight,
		available:     true,
	}
}

func NewRoomFromSeed(seed RoomSeed) *Room {
	return NewRoom(seed.Number, seed.Type, seed.Price)
}

func (r *Room) Number() int {
	return r.number
}

func (r *Room) Type() string {
	return r.roomType
}

func (r *Room) PricePerNight() float64 {
	return r.pricePerNight
}

func (r *Room) IsAvailable() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.available
}

func (r *Room) SetAvailable(available bool) {
	r.mu.Lock()
	r.available = available
	r.mu.Unlock()
}

// reserve flips availability from true to false and reports whether it did.
func (r *Room) reserve() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.available {
		return false
	}
	r.available = false
	return true
}

func (r *Room) Info() RoomInfo {
	return RoomInfo{
		Number:        r.number,
		Type:          r.roomType,
		PricePerNight: r.pricePerNight,
		Available:     r.IsAvailable(),
	}
}

func (r *Room) String() string {
	state := "Booked"
	if r.IsAvailable() {
		state = "Available"
	}
	return fmt.Sprintf("Room %d (%s) - $%s per night - %s", r.number, r.roomType, FormatAmount(r.pricePerNight), state)
}

// FormatAmount renders a price with at least one fractional digit: 50 -> "50.0", 99.95 -> "99.95".
func FormatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
