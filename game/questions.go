package game

// DefaultQuestions is the built-in quiz bank. Answers are ISO 3166-1
// alpha-3 codes.
var DefaultQuestions = []Question{
	{ID: 1, Category: "Agriculture", Difficulty: Hard,
		Text:        "Which countries are the world's largest cocoa producers?",
		Answers:     []string{"CIV", "GHA", "IDN", "NGA", "CMR"},
		Explanation: "Côte d'Ivoire, Ghana, Indonesia, Nigeria and Cameroon are the top five cocoa producers."},
	{ID: 2, Category: "Education", Difficulty: Medium,
		Text:        "Which countries have the highest literacy rates?",
		Answers:     []string{"AND", "FIN", "LIE", "LUX", "NOR"},
		Explanation: "Andorra, Finland, Liechtenstein, Luxembourg and Norway report literacy at or above 99%."},
	{ID: 3, Category: "Environment", Difficulty: Hard,
		Text:        "Which countries have the highest percentage of protected natural areas?",
		Answers:     []string{"VEN", "SVN", "MCO", "BTN", "TZA"},
		Explanation: "Venezuela, Slovenia, Monaco, Bhutan and Tanzania set aside large shares of their land as parks and reserves."},
	{ID: 4, Category: "Politics", Difficulty: Medium,
		Text:        "Which countries are in the G7?",
		Answers:     []string{"USA", "GBR", "FRA", "DEU", "ITA", "JPN", "CAN"},
		Explanation: "The G7 is the United States, United Kingdom, France, Germany, Italy, Japan and Canada."},
	{ID: 5, Category: "Energy", Difficulty: Medium,
		Text:        "Which countries are the world's largest producers of renewable energy?",
		Answers:     []string{"CHN", "USA", "BRA", "CAN", "IND"},
		Explanation: "China, the United States, Brazil, Canada and India lead renewable generation."},
	{ID: 6, Category: "Sports", Difficulty: Hard,
		Text:        "Which countries have never won a medal in the Summer Olympics?",
		Answers:     []string{"BDI", "BLZ", "GNB", "LBR", "SSD"},
		Explanation: "Burundi, Belize, Guinea-Bissau, Liberia and South Sudan are among the nations without a Summer Olympic medal."},
	{ID: 7, Category: "Health", Difficulty: Medium,
		Text:        "Which countries are considered 'Blue Zone' regions, known for longevity?",
		Answers:     []string{"ITA", "JPN", "GRC", "CRI", "USA"},
		Explanation: "Blue Zones are Sardinia, Okinawa, Ikaria, the Nicoya Peninsula and Loma Linda."},
	{ID: 8, Category: "Culture", Difficulty: Medium,
		Text:        "Which countries have the highest coffee consumption per capita?",
		Answers:     []string{"FIN", "NOR", "ISL", "DNK", "NLD"},
		Explanation: "Finland, Norway, Iceland, Denmark and the Netherlands drink the most coffee per person."},
	{ID: 9, Category: "Geography", Difficulty: Easy,
		Text:        "Which countries are completely landlocked?",
		Answers:     []string{"UGA", "ETH", "BOL", "PRY", "CHE"},
		Explanation: "Uganda, Ethiopia, Bolivia, Paraguay and Switzerland have no coastline."},
	{ID: 10, Category: "Geography", Difficulty: Easy,
		Text:        "Which countries are island nations?",
		Answers:     []string{"MDV", "MUS", "CYP", "JAM", "ISL"},
		Explanation: "Maldives, Mauritius, Cyprus, Jamaica and Iceland are surrounded entirely by water."},
	{ID: 11, Category: "Environment", Difficulty: Easy,
		Text:        "Which countries have the largest forest areas?",
		Answers:     []string{"RUS", "BRA", "CAN", "USA", "CHN"},
		Explanation: "Russia, Brazil, Canada, the United States and China hold the largest forests."},
	{ID: 12, Category: "Geography", Difficulty: Medium,
		Text:        "Which countries have the largest deserts?",
		Answers:     []string{"DZA", "SAU", "LBY", "EGY", "MNG"},
		Explanation: "Algeria, Saudi Arabia, Libya, Egypt and Mongolia span parts of the Sahara, Arabian and Gobi deserts."},
	{ID: 13, Category: "Economics", Difficulty: Medium,
		Text:        "Which countries are in the BRICS economic group?",
		Answers:     []string{"BRA", "RUS", "IND", "CHN", "ZAF"},
		Explanation: "BRICS is Brazil, Russia, India, China and South Africa."},
	{ID: 14, Category: "Geography", Difficulty: Medium,
		Text:        "Which countries have the longest coastlines?",
		Answers:     []string{"CAN", "IDN", "GRL", "RUS", "PHL"},
		Explanation: "Canada, Indonesia, Greenland, Russia and the Philippines have the longest coastlines."},
	{ID: 15, Category: "Sports", Difficulty: Easy,
		Text:        "Which countries have won the most FIFA World Cup titles?",
		Answers:     []string{"BRA", "DEU", "ITA", "ARG", "FRA"},
		Explanation: "Brazil, Germany, Italy, Argentina and France have won the most World Cups."},
}
