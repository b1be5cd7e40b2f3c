package passwords

var wordList = []string{
	"apple", "banana", "cherry", "dragon", "eagle", "forest", "garden", "house",
	"island", "jungle", "knight", "lemon", "mountain", "ocean", "planet", "queen",
	"river", "star", "tiger", "umbrella", "village", "water", "xenon", "yellow",
	"zebra", "alpha", "beta", "gamma", "delta", "echo", "foxtrot", "golf",
	"hotel", "india", "juliet", "kilo", "lima", "mike", "november", "oscar",
	"papa", "quebec", "romeo", "sierra", "tango", "uniform", "victor", "whiskey",
	"xray", "yankee", "zulu",
}
