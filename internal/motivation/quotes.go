package motivation

// Quote pools, keyed by the situation they speak to. Selection is uniform
// within a pool; pool choice is deterministic from progress and wall clock.

var starterQuotes = []string{
	"🌱 Every journey starts with a single refused impulse. Yours starts now.",
	"🚀 The first step is the hardest one. You have already taken it by being here.",
	"💫 You don't need to be perfect. You need to be one choice better than yesterday.",
	"🧭 Small decisions, repeated, become who you are.",
	"🌅 Today is a perfectly good day to begin.",
}

var buildingQuotes = []string{
	"🔥 Your streak is alive. Feed it one good decision at a time.",
	"💪 A few days in a row is not luck. It is a skill you are building.",
	"🧱 Brick by brick. Every impulse you ride out makes the wall stronger.",
	"⚡ Momentum is on your side now. Keep it rolling.",
	"🌿 Habits grow in the dark. Keep watering this one.",
}

var strongQuotes = []string{
	"🏔️ A week and beyond. You are not trying to change anymore, you ARE changing.",
	"🛡️ Your streak is armor now. Impulses bounce off it more easily every day.",
	"🌟 Most people never make it this far. You did.",
	"🎯 Discipline is remembering what you want. You clearly remember.",
	"🏃 You have outrun the hardest stretch. Keep your pace.",
}

var masterQuotes = []string{
	"👑 Three weeks and counting. This is not a streak anymore, it is a lifestyle.",
	"🦅 You have risen above the impulse. It no longer decides for you.",
	"💎 Pressure made you this. Twenty-one days of pressure, and look at the result.",
	"🧘 Calm is your default now. The craving is the visitor, not the resident.",
	"🌌 You have proven it to yourself. Now you are just collecting evidence.",
}

var comebackQuotes = []string{
	"🌤️ A gap is not a failure. It is a pause. Welcome back.",
	"🔄 Falling down is allowed. Staying down is the only real loss.",
	"🌱 Every comeback starts exactly like this: you showed up again.",
	"💙 Be as kind to yourself as you would be to a friend who returned.",
	"🚪 The door was never locked. Glad you walked back through it.",
}

var milestoneQuotes = []string{
	"🎉 A milestone! Stop for a second and actually feel this one.",
	"🏆 Numbers like this don't happen by accident. You earned every count.",
	"🎊 Look back at where you started. Now look at this.",
	"⭐ Milestones are proof the method works. Your method. Keep going.",
}

var successQuotes = []string{
	"🎉 You rode it out! The urge came, the urge left, and you are still standing.",
	"💪 One more win in the books. Your brain just learned the urge is survivable.",
	"🏆 That was a real fight and you won it. Well done.",
	"🌟 Victory! Each one of these makes the next one easier.",
	"🔥 Beautiful. The craving blinked first.",
}

var morningQuotes = []string{
	"☀️ Good morning! A fresh day, a fresh set of choices. Make the first one count.",
	"🌅 Morning is a head start. The day hasn't had a chance to test you yet.",
	"🐦 Win the morning and the rest of the day tends to follow.",
	"☕ Start slow, start kind. One good decision before noon is enough to begin.",
}

var afternoonQuotes = []string{
	"🌞 Midday check-in: still in charge? Of course you are.",
	"⚖️ The afternoon dip is real. So is your ability to ride it out.",
	"🚶 A short walk beats a long craving. The day is still yours.",
}

var eveningQuotes = []string{
	"🌆 The day is winding down. Whatever happened, you made it here.",
	"🌙 Evenings test resolve the hardest. Be gentle and be firm, both.",
	"🛋️ Rest is a strategy, not a reward. Take yours.",
	"✨ Count today's wins before you count today's misses.",
}

var nightQuotes = []string{
	"🌃 Late-night cravings are loudest and emptiest. Sleep starves them.",
	"😴 The best intervention at this hour is a pillow.",
	"🌙 Tomorrow's strength is being built right now, in rest.",
}

var eveningReflections = []string{
	"🌙 Before sleep, ask yourself: what was today's hardest moment, and how did I handle it?",
	"📖 Name one thing you did today that your future self will thank you for.",
	"🕯️ What triggered you today? Just noticing it is half the defense for tomorrow.",
	"💭 If today had a headline, what would it be? Write it kindly.",
	"🌌 Three good things happened today. Find them before you close your eyes.",
}

var dailyChallenges = []string{
	"🎯 Today's challenge: when an urge hits, wait 10 minutes before deciding anything.",
	"💧 Today's challenge: answer every craving with a glass of water first.",
	"🚶 Today's challenge: take a 5-minute walk the moment you feel an impulse.",
	"📝 Today's challenge: write down each urge you notice. Just the fact of it.",
	"🫁 Today's challenge: one round of deep breathing before every screen unlock.",
	"🤝 Today's challenge: tell one person about the habit you are working on.",
}
