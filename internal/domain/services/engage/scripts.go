package engage

// Strategy names, in the order a conversation normally progresses.
const (
	StrategyInitialEngagement = "initial_engagement"
	StrategyPlayingDumb       = "playing_dumb"
	StrategySeekingAssurance  = "seeking_assurance"
	StrategyExtractionPhase   = "extraction_phase"
	StrategyDelayingTactics   = "delaying_tactics"
)

// Scripted reply lines per strategy. The persona is a slightly
// confused, trusting customer who keeps the scammer talking.
var strategyLines = map[string][]string{
	StrategyInitialEngagement: {
		"Oh really? I wasn't expecting this message. Can you tell me more about it?",
		"Hello! Sorry, who is this? What is this regarding?",
		"I see. This sounds important. What do I need to do?",
		"Oh my, I just saw your message. What is this about exactly?",
	},
	StrategyPlayingDumb: {
		"I'm sorry, I'm not very good with these things. Can you explain it again slowly?",
		"I don't really understand. My son usually helps me with the phone. What should I do first?",
		"Wait, I'm confused. Which app do I need to open for this?",
		"Sorry, can you repeat that? I was making tea and missed your message.",
	},
	StrategySeekingAssurance: {
		"This is making me a bit nervous. How do I know this is genuine?",
		"Are you really from the bank? My neighbour said there are fraud calls these days.",
		"Okay, but is this safe? I don't want any problem with my account.",
		"Can you tell me your employee ID or office address first? Just to be sure.",
	},
	StrategyExtractionPhase: {
		"Okay okay, I want to sort this out. Where exactly should I send the money?",
		"Fine, I will do it. Can you share the account details once more? I want to write them down.",
		"My payment is not going through. Can you give me another number or UPI to try?",
		"I'm ready to pay. Please send me the exact details again, I don't want to make a mistake.",
	},
	StrategyDelayingTactics: {
		"I'm trying, but my internet is very slow right now. Give me a few minutes.",
		"The OTP hasn't come yet. Should I wait or restart my phone?",
		"My battery is about to die, let me put it on charge. Don't go anywhere please.",
		"I'm at the bank branch now but there's a long queue. Can this wait an hour?",
	},
}

// Requests used during the extraction phase for intelligence the
// scammer has not yet volunteered.
var extractionRequests = map[string]string{
	"bank": "Which account number should I transfer to? Please type it out fully.",
	"upi":  "Do you have a UPI ID? That would be easier for me than net banking.",
	"link": "Is there a website or link where I can do this myself?",
}

var tonePrefixes = map[string][]string{
	"concerned": {
		"Oh no, this sounds serious. ",
		"I'm really worried now. ",
		"Please don't block my account. ",
	},
	"confused": {
		"Hmm, okay. ",
		"Sorry, I'm a little lost here. ",
		"Oh, I see. ",
	},
	"agreeable": {
		"Yes yes, of course. ",
		"Okay, sure. ",
		"Alright then. ",
	},
}

var fillers = []string{
	"Just a moment, let me find my glasses.",
	"Hold on, someone is at the door.",
	"One second, I'm writing this down.",
}

var urgencyResponses = []string{
	"Please don't cancel anything, I'm doing it right now!",
	"Wait wait, don't close my file, I'm hurrying!",
	"I'm going as fast as I can, please give me a little more time!",
}
