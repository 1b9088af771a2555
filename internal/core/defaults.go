package core

// DefaultCategories is the taxonomy seeded on first run. Seeded categories
// can never be removed and neither can the subcategories listed here.
var DefaultCategories = []Category{
	{Name: "Food", IsDefault: true, Subcategories: []string{"Groceries", "Dining Out", "Fruits", "Vegetables", "Beverages"}},
	{Name: "Housing", IsDefault: true, Subcategories: []string{"Rent", "Home Maintenance", "Furniture", "Household Supplies", "Dishes", "Miscellaneous"}},
	{Name: "Utilities", IsDefault: true, Subcategories: []string{"Electricity", "Water", "Gas", "Internet"}},
	{Name: "Transportation", IsDefault: true, Subcategories: []string{"Car Rental", "Bus Ticket", "Flight Ticket", "Taxi"}},
	{Name: "Health", IsDefault: true, Subcategories: []string{"Medicine", "Hospital", "Dental", "Eye Care", "Medical Supplies"}},
	{Name: "Education", IsDefault: true, Subcategories: []string{"School Fees", "University Fees", "Books", "Stationery", "Courses"}},
	{Name: "Leisure", IsDefault: true, Subcategories: []string{"Travel", "Entertainment", "Sports Equipment", "Gym Membership", "Games"}},
	{Name: "Family and Social Obligations", IsDefault: true, Subcategories: []string{"Family Expenses", "Relative Expenses"}},
	{Name: "Personal Care", IsDefault: true, Subcategories: []string{"Beauty Salon", "Hygiene Products", "Beauty Products", "Barber"}},
	{Name: "Debt", IsDefault: true, Subcategories: []string{"Loan Payment"}},
	{Name: "Special Occasions", IsDefault: true, Subcategories: []string{"Birthday Gifts", "Wedding Gifts", "Visitation Gifts", "Celebrations"}},
	{Name: "Charity and Donations", IsDefault: true, Subcategories: []string{"Charity", "Helping the Needy", "Community Center"}},
}

// SeedCategories returns a fresh deep copy of DefaultCategories.
func SeedCategories() []Category {
	out := make([]Category, len(DefaultCategories))
	for i, c := range DefaultCategories {
		out[i] = c.Clone()
	}
	return out
}

// IsSeededSubcategory reports whether sub belongs to the seeded set of a
// default category. Subcategories added later are not protected.
func IsSeededSubcategory(category, sub string) bool {
	for _, c := range DefaultCategories {
		if c.Name == category {
			return c.HasSubcategory(sub)
		}
	}
	return false
}
