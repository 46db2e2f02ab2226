package domain

import "time"

// NoBidder — сентинел «ставок ещё не было».
const NoBidder int64 = -1

// Auction — read-only снимок состояния аукциона по товару.
type Auction struct {
	ProductID int64
	StoreID   int64
	// HighestBid стартует с базовой цены товара и только растёт.
	HighestBid float64
	// HighestBidder равен NoBidder, пока не принята первая ставка.
	HighestBidder int64
	Remaining     time.Duration
	Completed     bool
}

// Outbid описывает перебитого лидера аукциона для уведомления.
type Outbid struct {
	Bidder int64
	Amount float64
}

// None сообщает, был ли вообще предыдущий лидер.
func (o Outbid) None() bool {
	return o.Bidder == NoBidder
}
