package content

import "math/rand/v2"

// CoachingQuestions are open self-inquiry prompts offered in coaching
// sessions. The rotation in DrawCoachingQuestion guarantees no repeats
// until every question has been shown once.
var CoachingQuestions = []string{
	"🤔 What exactly are you feeling right now? Name the emotion as precisely as you can.",
	"🎯 What do you actually want this impulse to give you? Comfort, distraction, reward?",
	"⏰ When did this urge start? What happened just before it appeared?",
	"🌊 If you imagine the urge as a wave, where is it now — rising, peaking, or falling?",
	"💭 What thought is feeding this craving? Is that thought actually true?",
	"🔮 Imagine it is one hour from now and you gave in. How do you feel?",
	"🏆 Imagine it is one hour from now and you held on. How do you feel?",
	"📊 On a scale of 1 to 10, how strong is the urge right now? What would bring it down one point?",
	"🧩 What need is hiding behind this impulse? Rest, connection, stimulation?",
	"🪞 What would you say to a close friend who felt exactly what you feel now?",
	"⚡ What is the smallest action you could take in the next minute instead of giving in?",
	"🗺️ In which situations does this urge usually win? What is different this time?",
	"🌱 What were you doing the last time you successfully rode out this craving?",
	"💪 What personal strength have you already used today that could help here?",
	"🎭 If the urge could talk, what would it say? And what would you answer?",
	"🧭 How does giving in fit with the person you want to become?",
	"🕰️ Will this matter in a week? In a year? What will matter?",
	"🤲 What could you do with your hands for the next five minutes?",
	"❤️ What would taking care of yourself — really taking care — look like right now?",
	"🚪 If you could step outside this situation and look in, what advice would you give?",
}

// DrawCoachingQuestion picks a question not yet drawn according to used
// (indices into CoachingQuestions). When every question has been used the
// rotation resets: reset is true and the draw is from the full pool.
func DrawCoachingQuestion(used []int) (question string, index int, reset bool) {
	seen := make(map[int]bool, len(used))
	for _, i := range used {
		seen[i] = true
	}
	unused := make([]int, 0, len(CoachingQuestions))
	for i := range CoachingQuestions {
		if !seen[i] {
			unused = append(unused, i)
		}
	}
	if len(unused) == 0 {
		reset = true
		unused = unused[:0]
		for i := range CoachingQuestions {
			unused = append(unused, i)
		}
	}
	index = unused[rand.IntN(len(unused))]
	return CoachingQuestions[index], index, reset
}
