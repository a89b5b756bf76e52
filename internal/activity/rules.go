// Package activity decides whether a weather snapshot suits an outdoor activity.
package activity

import "github.com/i474232898/raincheck/internal/weather"

// Metric is a snapshot quantity a rule can test.
type Metric int

const (
	Precipitation Metric = iota // probability, 0..1
	WindSpeed                   // m/s
	Temperature                 // surface, Celsius
	CloudCoverage               // percent
	Humidity                    // relative percent
)

func (m Metric) value(s weather.Snapshot) float64 {
	ac := s.AtmosphericConditions
	switch m {
	case Precipitation:
		return ac.Precipitation.Probability
	case WindSpeed:
		return ac.Wind.SpeedMS
	case Temperature:
		return ac.Temperature.SurfaceCelsius
	case CloudCoverage:
		return ac.Clouds.CoveragePercent
	case Humidity:
		return ac.Humidity.RelativePercent
	}
	return 0
}

// Op compares a metric against a limit.
type Op int

const (
	Below   Op = iota // strictly less
	Above             // strictly greater
	AtLeast           // greater or equal
	AtMost            // less or equal
)

// Cond is a single comparison.
type Cond struct {
	Metric Metric
	Op     Op
	Limit  float64
}

func (c Cond) holds(s weather.Snapshot) bool {
	v := c.Metric.value(s)
	switch c.Op {
	case Below:
		return v < c.Limit
	case Above:
		return v > c.Limit
	case AtLeast:
		return v >= c.Limit
	case AtMost:
		return v <= c.Limit
	}
	return false
}

// Guard must hold for the activity to stay viable.
type Guard struct {
	Cond
	Message string
	Icon    string
}

// Branch selects the positive message when all of When hold. An empty When always matches.
type Branch struct {
	When    []Cond
	Message string
}

func (b Branch) matches(s weather.Snapshot) bool {
	for _, c := range b.When {
		if !c.holds(s) {
			return false
		}
	}
	return true
}

// Rule is the decision table entry of one activity.
type Rule struct {
	ID       string
	Label    string
	Icon     string
	Guards   []Guard
	Branches []Branch
	Final    []Guard // checked after the positive message is chosen
}

// Guard icons name the concern that failed.
const (
	iconRain     = "wi-rain"
	iconWind     = "wi-strong-wind"
	iconCalm     = "wi-wind-beaufort-0"
	iconCold     = "wi-snowflake-cold"
	iconHot      = "wi-hot"
	iconCloud    = "wi-cloudy"
	iconHumidity = "wi-humidity"
)

func rainBelow(limit float64, msg string) Guard {
	return Guard{Cond{Precipitation, Below, limit}, msg, iconRain}
}

func windBelow(limit float64, msg string) Guard {
	return Guard{Cond{WindSpeed, Below, limit}, msg, iconWind}
}

func warmerThan(limit float64, msg string) Guard {
	return Guard{Cond{Temperature, Above, limit}, msg, iconCold}
}

func coolerThan(limit float64, msg string) Guard {
	return Guard{Cond{Temperature, Below, limit}, msg, iconHot}
}

func always(msg string) Branch {
	return Branch{Message: msg}
}

// endurance covers running, cycling and hiking, which share thresholds.
func endurance(id, label, noun string) Rule {
	return Rule{
		ID: id, Label: label, Icon: "wi-day-sunny",
		Guards: []Guard{
			rainBelow(0.3, "Rain is likely; an indoor alternative may be better for "+noun+"."),
			windBelow(8, "Strong winds will make "+noun+" hard work."),
			warmerThan(5, "Too cold for comfortable "+noun+"."),
			coolerThan(32, "Too hot for "+noun+"; risk of heat exhaustion."),
		},
		Branches: []Branch{
			{When: []Cond{{Temperature, Above, 25}}, Message: "Good for " + noun + ", but it is warm: stay hydrated."},
			always("Great conditions for " + noun + "."),
		},
	}
}

func fieldSport(id, label string) Rule {
	return Rule{
		ID: id, Label: label, Icon: "wi-day-cloudy",
		Guards: []Guard{
			rainBelow(0.4, "Rain may interrupt "+label+"; the ground could be slippery."),
			windBelow(10, "Wind will interfere with "+label+"."),
		},
		Branches: []Branch{always("Good conditions for " + label + ".")},
	}
}

func gathering(id, label string) Rule {
	return Rule{
		ID: id, Label: label, Icon: "wi-day-sunny",
		Guards: []Guard{
			rainBelow(0.25, "Rain risk is too high for an outdoor "+label+"; plan a covered area."),
			windBelow(15, "Wind could disrupt an outdoor "+label+"."),
		},
		Branches: []Branch{always("Weather looks good for an outdoor " + label + ".")},
	}
}

// rules is evaluated in declaration order; Catalog preserves it.
var rules = []Rule{
	{
		ID: "stargazing", Label: "Stargazing", Icon: "wi-stars",
		Guards: []Guard{
			rainBelow(0.2, "Rain expected; the sky will not cooperate tonight."),
			{Cond{CloudCoverage, Below, 25}, "Too cloudy to see the stars.", iconCloud},
		},
		Branches: []Branch{always("Clear skies: excellent night for stargazing.")},
	},
	{
		ID: "aurora", Label: "Aurora watching", Icon: "wi-night-clear",
		Guards: []Guard{
			rainBelow(0.2, "Precipitation will hide any aurora activity."),
			{Cond{CloudCoverage, Below, 25}, "Cloud cover will block the aurora.", iconCloud},
		},
		Branches: []Branch{always("Clear, dark skies: good chances to spot an aurora.")},
	},
	endurance("running", "Running", "running"),
	endurance("cycling", "Cycling", "cycling"),
	endurance("hiking", "Hiking", "hiking"),
	fieldSport("soccer", "Soccer"),
	fieldSport("tennis", "Tennis"),
	fieldSport("golf", "Golf"),
	{
		ID: "park", Label: "Park visit", Icon: "wi-day-sunny",
		Guards: []Guard{
			rainBelow(0.3, "Rain is likely; not the best day for the park."),
			windBelow(12, "Too windy to enjoy the park."),
			warmerThan(10, "A bit too cold to stay long in the park."),
		},
		Branches: []Branch{always("Pleasant weather for a day at the park.")},
	},
	{
		ID: "picnic", Label: "Picnic", Icon: "wi-day-sunny",
		Guards: []Guard{
			rainBelow(0.3, "Rain would spoil the picnic."),
			windBelow(12, "Too windy; napkins and plates will fly away."),
			warmerThan(10, "Too cold to sit outside for a picnic."),
		},
		Branches: []Branch{always("Perfect picnic weather.")},
	},
	{
		ID: "beach", Label: "Beach", Icon: "wi-hot",
		Guards: []Guard{
			rainBelow(0.2, "Rain is expected at the beach."),
			windBelow(15, "Strong winds will blow sand around."),
			warmerThan(20, "Not warm enough for a beach day."),
		},
		Branches: []Branch{always("Great beach day; remember sunscreen.")},
	},
	{
		ID: "fishing", Label: "Fishing", Icon: "wi-day-cloudy",
		Guards: []Guard{
			rainBelow(0.5, "Heavy rain chance; fishing will be uncomfortable."),
			windBelow(15, "Too windy to fish safely."),
		},
		Branches: []Branch{
			{When: []Cond{{CloudCoverage, Above, 50}}, Message: "Overcast skies: fish tend to bite more."},
			always("Decent conditions for fishing."),
		},
	},
	{
		ID: "camping", Label: "Camping", Icon: "wi-night-clear",
		Guards: []Guard{
			rainBelow(0.3, "Rain likely; pack a good tarp or postpone the trip."),
			windBelow(12, "Wind will make pitching a tent difficult."),
		},
		Branches: []Branch{always("Good conditions for camping.")},
	},
	{
		ID: "gardening", Label: "Gardening", Icon: "wi-day-sunny",
		Guards: []Guard{
			rainBelow(0.6, "Too wet to work in the garden."),
			warmerThan(8, "Too cold for gardening; frost may damage plants."),
			coolerThan(35, "Too hot for gardening; water early or late."),
		},
		Branches: []Branch{
			{
				When:    []Cond{{Precipitation, Above, 0.2}, {Precipitation, Below, 0.4}},
				Message: "Light rain expected: good time to plant, nature will water.",
			},
			always("Good day for gardening."),
		},
	},
	gathering("eat-out", "meal"),
	gathering("bbq", "barbecue"),
	gathering("wedding", "wedding"),
	gathering("concert", "concert"),
	gathering("festival", "festival"),
	{
		ID: "photography", Label: "Photography", Icon: "wi-day-sunny-overcast",
		Guards: []Guard{
			windBelow(12, "Too windy to keep the camera steady."),
		},
		Branches: []Branch{
			{
				When:    []Cond{{CloudCoverage, AtLeast, 40}, {CloudCoverage, AtMost, 80}},
				Message: "Ideal light: clouds will diffuse the sun.",
			},
			{When: []Cond{{CloudCoverage, Below, 20}}, Message: "Clear skies: expect harsh light, try golden hour."},
			always("Overcast: soft, even light for portraits."),
		},
		Final: []Guard{
			rainBelow(0.3, "Rain is likely; protect your gear or shoot indoors."),
		},
	},
	{
		ID: "bird-watching", Label: "Bird watching", Icon: "wi-day-cloudy",
		Guards: []Guard{
			rainBelow(0.4, "Birds shelter from rain; sightings will be scarce."),
			windBelow(15, "Wind keeps birds hidden."),
		},
		Branches: []Branch{always("Good conditions for bird watching.")},
	},
	{
		ID: "motorcycle", Label: "Motorcycle ride", Icon: "wi-day-sunny",
		Guards: []Guard{
			rainBelow(0.15, "Wet roads are dangerous on two wheels."),
			windBelow(20, "Crosswinds make riding dangerous."),
			warmerThan(5, "Too cold to ride comfortably."),
		},
		Branches: []Branch{always("Good day for a ride.")},
	},
	{
		ID: "drone", Label: "Drone flying", Icon: "wi-day-sunny",
		Guards: []Guard{
			rainBelow(0.1, "Moisture can damage the drone electronics."),
			windBelow(10, "Too windy for stable drone flight."),
		},
		Branches: []Branch{always("Safe conditions to fly your drone.")},
	},
	{
		ID: "sailing", Label: "Sailing", Icon: "wi-windy",
		Guards: []Guard{
			rainBelow(0.4, "Rain and poor visibility on the water."),
			{Cond{WindSpeed, Above, 3}, "Not enough wind for sailing.", iconCalm},
			windBelow(20, "Dangerous wind speeds; stay in port."),
		},
		Branches: []Branch{
			{When: []Cond{{WindSpeed, Above, 10}}, Message: "Strong breeze: great for experienced sailors."},
			always("Gentle wind: pleasant sailing conditions."),
		},
	},
	{
		ID: "construction", Label: "Outdoor construction", Icon: "wi-day-cloudy",
		Guards: []Guard{
			rainBelow(0.2, "Rain will delay outdoor work."),
			windBelow(15, "Wind makes crane and roof work unsafe."),
			warmerThan(0, "Freezing temperatures affect concrete and safety."),
		},
		Branches: []Branch{always("Suitable conditions for outdoor work.")},
	},
	{
		ID: "painting", Label: "Exterior painting", Icon: "wi-day-sunny",
		Guards: []Guard{
			rainBelow(0.1, "Rain will ruin fresh paint."),
			{Cond{Humidity, Below, 80}, "Too humid; paint will not dry properly.", iconHumidity},
			warmerThan(10, "Too cold for paint to cure."),
			coolerThan(32, "Too hot; paint will dry too fast and blister."),
		},
		Branches: []Branch{always("Good conditions for exterior painting.")},
	},
	{
		ID: "car-wash", Label: "Car wash", Icon: "wi-day-sunny",
		Guards: []Guard{
			rainBelow(0.15, "Rain is coming; washing the car now is wasted effort."),
			warmerThan(5, "Too cold; water may freeze on the car."),
		},
		Branches: []Branch{always("Good day to wash the car.")},
	},
}

// defaultRule applies to ids without an entry in rules.
var defaultRule = Rule{
	Label: "Outdoor activity", Icon: "wi-day-sunny",
	Guards: []Guard{
		rainBelow(0.5, "Rain is likely; consider postponing outdoor plans."),
		windBelow(10, "Too windy for most outdoor activities."),
	},
	Branches: []Branch{always("Conditions look fine for outdoor activities.")},
}

var aliases = map[string]string{
	"birdwatching": "bird-watching",
	"carwash":      "car-wash",
	"eatout":       "eat-out",
	"barbecue":     "bbq",
	"moto":         "motorcycle",
	"stars":        "stargazing",
}
