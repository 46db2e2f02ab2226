package store

import "fmt"

// Тексты уведомлений пользователям. Вынесены отдельно, чтобы операции агрегата
// не обрастали форматированием.

func ownerProposedText(storeName string, appointorID int64) string {
	return fmt.Sprintf("user %d proposed you as an owner of store %q", appointorID, storeName)
}

func managerProposedText(storeName string, appointorID int64) string {
	return fmt.Sprintf("user %d proposed you as a manager of store %q", appointorID, storeName)
}

func assignmentAcceptedText(storeName string, appointeeID int64) string {
	return fmt.Sprintf("user %d accepted your assignment proposal for store %q", appointeeID, storeName)
}

func assignmentConfirmedText(storeName string) string {
	return fmt.Sprintf("your role in store %q is now active", storeName)
}

func assignmentDeclinedText(storeName string, appointeeID int64) string {
	return fmt.Sprintf("user %d declined your assignment proposal for store %q", appointeeID, storeName)
}

func roleRevokedText(storeName string) string {
	return fmt.Sprintf("your role in store %q has been revoked", storeName)
}

func outbidText(storeName string, productID int64, amount float64) string {
	return fmt.Sprintf("you were outbid on product %d in store %q: new highest bid is %.2f", productID, storeName, amount)
}

func auctionWonText(storeName string, productID int64, amount float64) string {
	return fmt.Sprintf("you won the auction for product %d in store %q at %.2f; the item is in your cart", productID, storeName, amount)
}

func auctionLostText(storeName string, productID int64) string {
	return fmt.Sprintf("the auction for product %d in store %q has ended; your bid did not win", productID, storeName)
}

func auctionEndedText(storeName string, productID, winnerID int64, amount float64) string {
	return fmt.Sprintf("auction for product %d in store %q ended: winner %d at %.2f", productID, storeName, winnerID, amount)
}

func auctionNoBidsText(storeName string, productID int64) string {
	return fmt.Sprintf("auction for product %d in store %q ended without bids", productID, storeName)
}

func offerPlacedText(storeName string, userID, productID int64, amount float64) string {
	return fmt.Sprintf("user %d offered %.2f for product %d in store %q", userID, amount, productID, storeName)
}

func offerApprovedText(storeName string, productID int64, amount float64) string {
	return fmt.Sprintf("your offer of %.2f for product %d in store %q was approved; the item is in your cart", amount, productID, storeName)
}

func offerApprovedOwnersText(storeName string, userID, productID int64, amount float64) string {
	return fmt.Sprintf("offer of %.2f by user %d for product %d in store %q was approved", amount, userID, productID, storeName)
}

func offerDeclinedText(storeName string, productID int64) string {
	return fmt.Sprintf("your offer for product %d in store %q was rejected", productID, storeName)
}

func offerDeclinedOwnersText(storeName string, ownerID, userID, productID int64) string {
	return fmt.Sprintf("owner %d declined the offer by user %d for product %d in store %q", ownerID, userID, productID, storeName)
}

func counterOfferText(storeName string, productID int64, amount float64) string {
	return fmt.Sprintf("counter-offer: store %q proposes %.2f for product %d", storeName, amount, productID)
}

func counterDeclinedOwnersText(storeName string, userID, productID int64) string {
	return fmt.Sprintf("user %d declined the counter-offer for product %d in store %q", userID, productID, storeName)
}

func storeClosedText(storeName string) string {
	return fmt.Sprintf("store %q has been closed", storeName)
}

func newMessageText(storeName string, userID int64) string {
	return fmt.Sprintf("new message from user %d in store %q", userID, storeName)
}

func replyText(storeName, reply string) string {
	return fmt.Sprintf("store %q replied to your message: %s", storeName, reply)
}
