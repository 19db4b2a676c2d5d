package classify

import "fintrack/internal/core"

// Category names used by the built-in table and by the insight thresholds.
const (
	CategoryFood          = "Food"
	CategoryGroceries     = "Groceries"
	CategoryTransport     = "Transport"
	CategoryShopping      = "Shopping"
	CategoryEntertainment = "Entertainment"
	CategoryBills         = "Bills"
	CategoryHealth        = "Health"
	CategoryEducation     = "Education"
	CategoryTravel        = "Travel"
	CategoryInvestment    = "Investment"
	CategoryIncome        = "Income"
	CategoryTransfer      = "Transfer"
)

// DefaultRules returns the built-in ordered rule table.
//
// Order is significant: the first rule with a matching keyword wins, so more
// specific rules ("uber eats") are declared before broader ones ("uber").
func DefaultRules() []core.CategoryRule {
	return []core.CategoryRule{
		{Category: CategoryFood, Subcategory: "Food Delivery", Keywords: []string{"swiggy", "zomato", "uber eats", "dominos", "domino's"}},
		{Category: CategoryFood, Subcategory: "Restaurants", Keywords: []string{"restaurant", "cafe", "coffee", "starbucks", "mcdonald", "kfc", "pizza", "burger", "dining", "bakery"}},
		{Category: CategoryGroceries, Subcategory: "Supermarket", Keywords: []string{"bigbasket", "blinkit", "grofers", "zepto", "dmart", "grocery", "supermarket"}},
		{Category: CategoryTransport, Subcategory: "Ride Hailing", Keywords: []string{"uber", "ola cabs", "olacabs", "rapido", "lyft", "taxi"}},
		{Category: CategoryTransport, Subcategory: "Fuel", Keywords: []string{"petrol", "diesel", "fuel", "indian oil", "hpcl", "bpcl"}},
		{Category: CategoryTransport, Subcategory: "Public Transit", Keywords: []string{"metro", "irctc", "railway", "redbus", "train ticket"}},
		{Category: CategoryShopping, Subcategory: "Online", Keywords: []string{"amazon", "flipkart", "myntra", "ajio", "meesho", "nykaa", "ebay"}},
		{Category: CategoryShopping, Subcategory: "Retail", Keywords: []string{"mall", "store", "shop", "decathlon", "lifestyle"}},
		{Category: CategoryEntertainment, Subcategory: "Streaming", Keywords: []string{"netflix", "hotstar", "spotify", "prime video", "youtube"}},
		{Category: CategoryEntertainment, Subcategory: "Movies", Keywords: []string{"bookmyshow", "pvr", "inox", "cinema", "movie"}},
		{Category: CategoryBills, Subcategory: "Utilities", Keywords: []string{"electricity", "water bill", "gas bill", "broadband", "internet", "bill payment"}},
		{Category: CategoryBills, Subcategory: "Mobile", Keywords: []string{"recharge", "airtel", "jio", "vodafone", "postpaid", "prepaid"}},
		{Category: CategoryHealth, Subcategory: "Pharmacy", Keywords: []string{"pharmacy", "apollo", "medplus", "netmeds", "1mg", "chemist"}},
		{Category: CategoryHealth, Subcategory: "Medical", Keywords: []string{"hospital", "clinic", "doctor", "diagnostic", "lab test"}},
		{Category: CategoryEducation, Keywords: []string{"school", "college", "tuition", "udemy", "coursera", "course fee"}},
		{Category: CategoryTravel, Keywords: []string{"makemytrip", "goibibo", "airline", "indigo", "air india", "hotel", "airbnb", "oyo"}},
		{Category: CategoryInvestment, Keywords: []string{"mutual fund", "zerodha", "groww", "upstox", "fixed deposit"}},
		{Category: CategoryIncome, Subcategory: "Salary", Keywords: []string{"salary", "payroll", "stipend"}},
		{Category: CategoryIncome, Subcategory: "Returns", Keywords: []string{"dividend", "interest"}},
		{Category: CategoryTransfer, Keywords: []string{"neft", "imps", "rtgs", "upi transfer", "transfer"}},
	}
}
