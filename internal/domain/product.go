package domain

// Product описывает товар в каталоге магазина.
type Product struct {
	ID       int64
	StoreID  int64
	Name     string
	Price    float64
	Quantity int
	// Ratings хранит оценку товара по каждому пользователю (1..5).
	Ratings map[int64]int
}

// Validate проверяет базовые инварианты товара и возвращает список замечаний.
func (p *Product) Validate() []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, InvalidArgument("product name is required"))
	}
	if p.Price <= 0 {
		errs = append(errs, InvalidArgument("product price must be greater than zero"))
	}
	if p.Quantity < 0 {
		errs = append(errs, InvalidArgument("product quantity must be non-negative"))
	}

	return errs
}

// Clone возвращает независимую копию товара вместе с оценками.
func (p Product) Clone() Product {
	cloned := p
	cloned.Ratings = make(map[int64]int, len(p.Ratings))
	for userID, rating := range p.Ratings {
		cloned.Ratings[userID] = rating
	}
	return cloned
}

// AverageRating возвращает среднюю оценку товара (0, если оценок нет).
func (p Product) AverageRating() float64 {
	if len(p.Ratings) == 0 {
		return 0
	}
	var sum int
	for _, rating := range p.Ratings {
		sum += rating
	}
	return float64(sum) / float64(len(p.Ratings))
}
