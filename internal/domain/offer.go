package domain

// Offer — read-only снимок активного оффера покупателя.
// Оффер требует единогласного одобрения всеми текущими владельцами.
type Offer struct {
	UserID    int64
	StoreID   int64
	ProductID int64
	Amount    float64
	// AcceptedBy — владельцы, уже одобрившие оффер.
	AcceptedBy []int64
	Declined   bool
	Handled    bool
}

// CounterOffer — встречное предложение владельца по офферу покупателя.
type CounterOffer struct {
	UserID    int64
	StoreID   int64
	ProductID int64
	Amount    float64
}
