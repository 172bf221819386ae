package sparql

import "sort"

// Example is a canned SELECT query for the free-form runner.
type Example struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Query       string `json:"query"`
}

const prefixFIFA = `PREFIX fifa: <http://example.org/fifa/>
PREFIX xsd: <http://www.w3.org/2001/XMLSchema#>
`

// examples are written against the FIFA demo dataset the default endpoint serves.
var examples = map[string]Example{
	"left-footed-pace": {
		Description: "High-pace left-footed outfielders",
		Query: prefixFIFA + `SELECT ?player ?name ?pace ?dribbling WHERE {
  ?player a fifa:OutfieldPlayer ;
          fifa:name ?name ;
          fifa:hasPreferredFoot fifa:LeftFoot ;
          fifa:hasSkill fifa:pace ;
          fifa:hasSkill fifa:dribbling .
  fifa:pace fifa:skillValue ?pace .
  fifa:dribbling fifa:skillValue ?dribbling .
  FILTER(?pace > 85 && ?dribbling > 85)
}
ORDER BY DESC(?pace)
`,
	},
	"top-rated": {
		Description: "Top rated players (overall > 85)",
		Query: prefixFIFA + `SELECT ?player ?name ?rating WHERE {
  ?player a fifa:Player ;
          fifa:name ?name ;
          fifa:overallRating ?rating .
  FILTER(?rating > 85)
}
ORDER BY DESC(?rating)
`,
	},
	"diverse-clubs": {
		Description: "Clubs with more than 5 nationalities",
		Query: prefixFIFA + `SELECT ?club (COUNT(DISTINCT ?country) AS ?nationalityCount) WHERE {
  ?player fifa:playsFor ?club ;
          fifa:representsNation ?country .
}
GROUP BY ?club
HAVING(COUNT(DISTINCT ?country) > 5)
ORDER BY DESC(?nationalityCount)
`,
	},
	"versatile-elite": {
		Description: "Players with multiple positions and a skill >= 85",
		Query: prefixFIFA + `SELECT ?player ?name (COUNT(DISTINCT ?pos) AS ?positionCount) WHERE {
  ?player a fifa:Player ;
          fifa:name ?name ;
          fifa:hasPosition ?pos ;
          fifa:hasSkill ?skill .
  ?skill fifa:skillValue ?value .
  FILTER(?value >= 85)
}
GROUP BY ?player ?name
HAVING(COUNT(DISTINCT ?pos) > 1)
ORDER BY DESC(?positionCount)
`,
	},
	"elite-clubs": {
		Description: "Clubs with average rating > 80",
		Query: prefixFIFA + `SELECT ?club (AVG(?rating) AS ?avgRating) WHERE {
  ?player fifa:playsFor ?club ;
          fifa:overallRating ?rating .
}
GROUP BY ?club
HAVING(AVG(?rating) > 80)
ORDER BY DESC(?avgRating)
`,
	},
	"expatriates": {
		Description: "Players whose club and country names differ",
		Query: prefixFIFA + `SELECT ?player ?name ?club ?country WHERE {
  ?player a fifa:Player ;
          fifa:name ?name ;
          fifa:playsFor ?club ;
          fifa:representsNation ?country .
  FILTER(!STRENDS(STR(?club), STR(?country)))
}
`,
	},
	"goalkeeper-reflexes": {
		Description: "Goalkeepers with reflexes > 85",
		Query: prefixFIFA + `SELECT ?player ?name ?reflexes WHERE {
  ?player a fifa:Goalkeeper ;
          fifa:name ?name ;
          fifa:hasSkill ?reflexSkill .
  ?reflexSkill a fifa:Skill ;
               fifa:skillValue ?reflexes .
  FILTER(CONTAINS(STR(?reflexSkill), "goalkeeping_reflexes"))
  FILTER(?reflexes > 85)
}
ORDER BY DESC(?reflexes)
`,
	},
	"expiring-contracts": {
		Description: "Contracts ending in 2025 or earlier",
		Query: prefixFIFA + `SELECT ?player ?name ?contractYear WHERE {
  ?player fifa:name ?name ;
          fifa:contractUntil ?contractYear .
  FILTER(xsd:integer(STR(?contractYear)) <= 2025)
}
ORDER BY ?contractYear
`,
	},
	"reputation-clubs": {
		Description: "Clubs counted by high-reputation players",
		Query: prefixFIFA + `SELECT ?club (COUNT(?player) AS ?playerCount) WHERE {
  ?player fifa:hasSkill ?repSkill ;
          fifa:playsFor ?club .
  ?repSkill a fifa:Skill ;
            fifa:skillValue ?repValue .
  FILTER(?repValue >= 4)
}
GROUP BY ?club
ORDER BY DESC(?playerCount)
`,
	},
}

// LookupExample returns the named example query.
func LookupExample(name string) (Example, bool) {
	ex, ok := examples[name]
	if ok {
		ex.Name = name
	}
	return ex, ok
}

// Examples returns all example queries sorted by name.
func Examples() []Example {
	out := make([]Example, 0, len(examples))
	for name, ex := range examples {
		ex.Name = name
		out = append(out, ex)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
