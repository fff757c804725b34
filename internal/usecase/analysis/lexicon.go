package analysis

// Weights are in (0, 1]; stronger words carry more weight.

var positiveWords = map[string]float64{
	// strong
	"surge": 1.0, "soar": 1.0, "skyrocket": 1.0, "breakthrough": 1.0, "record": 0.9,
	"bullish": 0.95, "rally": 0.95, "boom": 0.95, "triumph": 0.9, "outperform": 0.9,
	"breakout": 0.9, "win": 0.85, "wins": 0.85, "best": 0.85, "thrive": 0.85,

	// moderate
	"beat": 0.85, "exceed": 0.85, "upgrade": 0.85, "optimistic": 0.85, "optimism": 0.85,
	"profit": 0.8, "growth": 0.8, "gain": 0.8, "jump": 0.8, "strong": 0.8,
	"boost": 0.8, "success": 0.8, "successful": 0.8, "improve": 0.75, "rising": 0.75,
	"advance": 0.75, "climb": 0.75, "expansion": 0.75, "momentum": 0.75, "upside": 0.75,
	"favorable": 0.75, "recover": 0.7, "recovery": 0.7, "rebound": 0.7, "stabilize": 0.7,
	"strength": 0.7, "approve": 0.7, "approval": 0.7, "celebrate": 0.7, "hope": 0.6,

	// mild
	"positive": 0.65, "rise": 0.65, "higher": 0.65, "increase": 0.65, "better": 0.65,
	"good": 0.65, "great": 0.75, "solid": 0.65, "confident": 0.65, "opportunity": 0.6,
	"promising": 0.6, "attractive": 0.6, "support": 0.5, "resilient": 0.6, "steady": 0.5,
	"healthy": 0.55, "progress": 0.55, "achievement": 0.55, "innovative": 0.55, "innovation": 0.55,
	"advantage": 0.55, "efficient": 0.5, "robust": 0.5, "stable": 0.5, "deal": 0.4,
	"agreement": 0.45, "launch": 0.4, "welcome": 0.5, "benefit": 0.55, "help": 0.45,
	"safe": 0.5, "cure": 0.7, "save": 0.5, "peace": 0.7, "easing": 0.45,
}

var negativeWords = map[string]float64{
	// strong
	"crash": 1.0, "plunge": 1.0, "collapse": 1.0, "devastate": 1.0, "catastrophic": 1.0,
	"disaster": 1.0, "crisis": 0.95, "bankruptcy": 0.95, "bankrupt": 0.95, "plummet": 0.95,
	"tumble": 0.95, "rout": 0.95, "panic": 0.9, "worst": 0.9, "war": 0.9,
	"kill": 0.95, "dead": 0.9, "death": 0.9, "fraud": 0.9, "scandal": 0.85,

	// moderate
	"bearish": 0.85, "downgrade": 0.85, "warning": 0.85, "warn": 0.8, "lawsuit": 0.85,
	"recession": 0.85, "layoff": 0.8, "layoffs": 0.8, "dispute": 0.8, "miss": 0.8,
	"loss": 0.8, "losses": 0.8, "slump": 0.8, "decline": 0.8, "deteriorate": 0.8,
	"underperform": 0.8, "fail": 0.8, "failure": 0.8, "struggle": 0.75, "weak": 0.75,
	"weakness": 0.75, "drop": 0.75, "fall": 0.75, "sink": 0.75, "slide": 0.7,
	"concern": 0.7, "worry": 0.7, "worries": 0.7, "fear": 0.75, "disappoint": 0.7,
	"uncertain": 0.7, "risky": 0.7, "attack": 0.85, "threat": 0.65, "sanction": 0.65,
	"tariff": 0.5, "inflation": 0.5, "shortage": 0.7, "outage": 0.7, "breach": 0.8,
	"probe": 0.6, "fine": 0.4, "ban": 0.6, "strike": 0.55, "cut": 0.5,

	// mild
	"problem": 0.65, "issue": 0.6, "risk": 0.65, "volatile": 0.65, "volatility": 0.6,
	"uncertainty": 0.65, "doubt": 0.65, "pressure": 0.6, "challenge": 0.6, "difficult": 0.6,
	"hurt": 0.6, "lower": 0.6, "disappointing": 0.6, "negative": 0.6, "poor": 0.6,
	"slow": 0.6, "slowdown": 0.6, "dip": 0.55, "slip": 0.55, "retreat": 0.55,
	"caution": 0.55, "downside": 0.55, "correction": 0.5, "pullback": 0.5, "drag": 0.5,
	"headwind": 0.5, "delay": 0.5, "halt": 0.55, "bad": 0.65, "down": 0.4,
}
