package service

import "bakery-preorder/order-svc/internal/domain"

type ContentService struct {
	faq []domain.FAQEntry
}

func NewContentService() *ContentService {
	return &ContentService{faq: defaultFAQ}
}

func (s *ContentService) FAQ() []domain.FAQEntry {
	out := make([]domain.FAQEntry, len(s.faq))
	copy(out, s.faq)
	return out
}

var defaultFAQ = []domain.FAQEntry{
	{
		Question: "How far in advance do I need to order?",
		Answer:   "In-stock items can be picked up any weekday from the next day on. Made-to-order breads are baked for Thursday, Friday and Saturday pickup. Orders close Wednesday 6pm for Saturday pickup.",
	},
	{
		Question: "When can I pick up my order?",
		Answer:   "In-stock items are ready between 12:00 PM and 6:00 PM, Monday to Friday. Made-to-order items can be collected between 9:00 AM and 6:00 PM, Thursday to Saturday.",
	},
	{
		Question: "How do I pay?",
		Answer:   "Payment is collected in person at pickup. We accept cash and cards.",
	},
	{
		Question: "Do you offer vegan or gluten-free options?",
		Answer:   "Yes. Dietary information is listed for every item on the menu, and you can filter the menu by vegan, gluten-free, dairy-free and nut-free.",
	},
	{
		Question: "Will I get a reminder before pickup?",
		Answer:   "If you choose email, text message or both when ordering, we send a reminder 24 hours before your pickup time.",
	},
	{
		Question: "Do you take large orders for events?",
		Answer:   "We do. Use the bulk order form with your event date, quantities and any special requirements and we'll get back to you within 24 hours.",
	},
	{
		Question: "Can I change or cancel my order?",
		Answer:   "Contact us as soon as possible and we'll do our best. Made-to-order items that are already baking can't be cancelled.",
	},
}
