package subscription

// Currencies lists the preferred-currency codes a subscriber may pick.
var Currencies = newSet(
	"AFN", "ALL", "DZD", "ARS", "AMD", "AUD", "AZN", "BHD",
	"BDT", "BYN", "BZD", "BOB", "BAM", "BWP", "BRL", "GBP",
	"BND", "BGN", "BIF", "KHR", "CAD", "CVE", "XAF", "CLP",
	"CNY", "COP", "KMF", "CDF", "CRC", "HRK", "CZK", "DKK",
	"DJF", "DOP", "EGP", "ERN", "EEK", "ETB", "EUR", "GEL",
	"GHS", "GTQ", "GNF", "HNL", "HKD", "HUF", "ISK", "INR",
	"IDR", "IRR", "IQD", "ILS", "JMD", "JPY", "JOD", "KZT",
	"KES", "KWD", "LVL", "LBP", "LYD", "LTL", "MOP", "MKD",
	"MGA", "MYR", "MUR", "MXN", "MDL", "MAD", "MZN", "MMK",
	"NAD", "NPR", "TWD", "NZD", "NIO", "NGN", "NOK", "OMR",
	"PKR", "PAB", "PYG", "PEN", "PHP", "PLN", "QAR", "RON",
	"RUB", "RWF", "SAR", "RSD", "SGD", "SOS", "ZAR", "KRW",
	"LKR", "SDG", "SEK", "CHF", "SYP", "TZS", "THB", "TOP",
	"TTD", "TND", "TRY", "USD", "UGX", "UAH", "AED", "UYU",
	"UZS", "VEF", "VND", "XOF", "YER", "ZMK", "ZWL",
)

// Continents are the site's continent region tokens.
var Continents = newSet(
	"_Africa",
	"_Asia",
	"_Europe",
	"_North America",
	"_Oceania",
	"_South America",
)

// Countries are the site's country region tokens. The X* entries are the
// site's multiple-country pseudo regions.
var Countries = newSet(
	"Afghanistan", "Albania", "Algeria", "Andorra", "Angola", "Antigua and Barbuda",
	"Argentina", "Armenia", "Australia", "Austria", "Azerbaijan", "Bahamas", "Bahrain",
	"Bangladesh", "Barbados", "Belarus", "Belgium", "Belize", "Benin", "Bhutan",
	"Bolivia", "Bosnia and Herzegovina", "Botswana", "Brazil", "Brunei", "Bulgaria",
	"Burkina Faso", "Burundi", "Cabo Verde", "Cambodia", "Cameroon", "Canada",
	"Central African Republic", "Chad", "Chile", "China", "Colombia", "Comoros",
	"Congo", "Costa Rica", "Cote d_Ivoire", "Croatia", "Cuba", "Cyprus",
	"Czech Republic", "Democratic People_s Republic of Korea",
	"Democratic Republic of the Congo", "Denmark", "Djibouti", "Dominica",
	"Dominican Republic", "Ecuador", "Egypt", "El Salvador", "Equatorial Guinea",
	"Eritrea", "Estonia", "Eswatini", "Ethiopia", "Federated States of Micronesia",
	"Fiji", "Finland", "France", "Gabon", "Gambia", "Georgia", "Germany", "Ghana",
	"Greece", "Grenada", "Guatemala", "Guinea", "Guinea Bissau", "Guyana", "Haiti",
	"Honduras", "Hong Kong", "Hungary", "Iceland", "India", "Indonesia", "Iran",
	"Iraq", "Ireland", "Israel", "Italy", "Jamaica", "Japan", "Jordan", "Kazakhstan",
	"Kenya", "Kiribati", "Kosovo", "Kuwait", "Kyrgyzstan", "Laos", "Latvia", "Lebanon",
	"Lesotho", "Liberia", "Libya", "Liechtenstein", "Lithuania", "Luxembourg", "Macau",
	"Madagascar", "Malawi", "Malaysia", "Maldives", "Mali", "Malta",
	"Marshall Islands", "Mauritania", "Mauritius", "Mexico", "Moldova", "Monaco",
	"Mongolia", "Montenegro", "Morocco", "Mozambique", "XF", "XM", "XA", "XE", "XN",
	"XO", "XS", "XW", "Myanmar", "Namibia", "Nauru", "Nepal", "Netherlands",
	"New Zealand", "Nicaragua", "Niger", "Nigeria", "North Macedonia", "Norway",
	"Oman", "Pakistan", "Palau", "Palestine", "Panama", "Papua New Guinea", "Paraguay",
	"Peru", "Philippines", "Poland", "Portugal", "Qatar", "Korea", "Romania", "Russia",
	"Rwanda", "Saint Kitts and Nevis", "Saint Lucia",
	"Saint Vincent and the Grenadines", "Samoa", "San Marino", "Sao Tome and Principe",
	"Saudi Arabia", "Senegal", "Serbia", "Seychelles", "Sierra Leone", "Singapore",
	"Slovakia", "Slovenia", "Solomon Islands", "Somalia", "South Africa",
	"South Sudan", "Spain", "Sri Lanka", "Sudan", "Suriname", "Sweden", "Switzerland",
	"Syria", "Taiwan", "Tajikistan", "Tanzania", "Thailand", "Timor-Leste", "Togo",
	"Tonga", "Trinidad and Tobago", "Tunisia", "Turkey", "Turkmenistan", "Tuvalu",
	"Uganda", "Ukraine", "United Arab Emirates", "United Kingdom", "USA", "Uruguay",
	"Uzbekistan", "Vanuatu", "Vatican City", "Venezuela", "Vietnam", "Yemen", "Zambia",
	"Zimbabwe",
)

// EventTypes are the puzzle event codes used in search queries.
var EventTypes = newSet(
	"333", "444", "555", "666", "777", "333bf",
	"333fm", "333oh", "clock", "minx", "pyram", "skewb",
	"sq1", "444bf", "555bf", "333mbf",
)

// Set is a read-only string set.
type Set struct {
	members map[string]struct{}
	order   []string
}

func newSet(values ...string) Set {
	s := Set{members: make(map[string]struct{}, len(values)), order: values}
	for _, v := range values {
		s.members[v] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s Set) Has(v string) bool {
	_, ok := s.members[v]
	return ok
}

// Values returns the members in declaration order.
func (s Set) Values() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
