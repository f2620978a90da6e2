// Package content holds the static coping-content catalogs: per-impulse
// technique lists, breathing exercises, meditation practices, and distraction
// mini-games. Pure data plus uniform random selection, no state.
package content

import (
	"math/rand/v2"

	"github.com/spotcoach/cravebreaker/internal/models"
)

// Technique is one coping action offered for a specific impulse category.
type Technique struct {
	Name        string
	Instruction string
}

// ImpulseGuide bundles the title and technique list for one impulse category.
type ImpulseGuide struct {
	Title      string
	Techniques []Technique
}

// Exercise is a generic named practice (breathing, meditation, or game).
type Exercise struct {
	Name        string
	Instruction string
}

var impulseGuides = map[models.Category]ImpulseGuide{
	models.CategorySweets: {
		Title: "🍰 Sugar craving",
		Techniques: []Technique{
			{Name: "🥤 Drink swap", Instruction: "Drink a glass of water with lemon or mint. Thirst often masquerades as a sugar craving."},
			{Name: "⏰ The 10-minute rule", Instruction: "Wait 10 minutes. Put on some music or do a few stretches. The urge usually passes on its own."},
			{Name: "🍎 Healthy alternative", Instruction: "Eat an apple, a banana, or a handful of nuts. Give your body the nutrients it is actually asking for."},
		},
	},
	models.CategoryAlcohol: {
		Title: "🍷 Urge to drink",
		Techniques: []Technique{
			{Name: "🫧 Zero-proof swap", Instruction: "Mix a virgin mojito or pour sparkling water with lime into a nice glass."},
			{Name: "🧘 The STOP technique", Instruction: "STOP: Stop. Take a deep breath. Observe the emotion. Proceed only after weighing the consequences."},
			{Name: "🏃 Change of scenery", Instruction: "Step outside for 15 minutes. Walk around the block or do a few squats."},
		},
	},
	models.CategorySmoking: {
		Title: "🚬 Urge to smoke",
		Techniques: []Technique{
			{Name: "🫁 Breathing substitute", Instruction: "Mimic the smoking ritual: inhale deeply through pursed lips, hold it, exhale slowly."},
			{Name: "🥕 Chewing substitute", Instruction: "Chew a carrot stick, celery, or sugar-free gum. Keeping the mouth busy is half the battle."},
			{Name: "🤲 Busy hands", Instruction: "Squeeze a grip trainer, spin a pen, doodle. The urge to smoke is often a hand habit."},
		},
	},
	models.CategoryScrolling: {
		Title: "📱 Urge to scroll",
		Techniques: []Technique{
			{Name: "📵 Phone out of reach", Instruction: "Leave the phone in another room for 20 minutes. Out of sight, out of mind."},
			{Name: "📚 Activity swap", Instruction: "Open a book, start a podcast, or do something with your hands."},
			{Name: "⏰ Pomodoro deal", Instruction: "Set a 25-minute timer and do something useful. When it rings, you may scroll for 5 minutes."},
		},
	},
	models.CategoryAnger: {
		Title: "😤 Urge to lash out",
		Techniques: []Technique{
			{Name: "🧊 Cold water", Instruction: "Splash cold water on your face or hold an ice cube. A sharp temperature change dampens aggression."},
			{Name: "🔢 Count to ten", Instruction: "Count slowly from 1 to 10, breathing deeply. For strong anger, go to 100."},
			{Name: "🏃 Physical release", Instruction: "Do 10 push-ups or squats, or just shake out your arms and legs for 30 seconds."},
		},
	},
	models.CategoryJunkFood: {
		Title: "🍔 Junk food craving",
		Techniques: []Technique{
			{Name: "🥗 Plate rule", Instruction: "Eat a salad or some vegetables first. The craving for junk often fades after."},
			{Name: "🦷 Brush your teeth", Instruction: "Brush with mint toothpaste. You won't feel like eating for the next 20-30 minutes."},
			{Name: "🤔 Hunger or emotion?", Instruction: "Ask yourself: am I actually hungry, or is this a feeling? If it's a feeling, deal with the feeling."},
		},
	},
	models.CategoryShopping: {
		Title: "🛒 Urge to spend",
		Techniques: []Technique{
			{Name: "🛒 Wishlist parking", Instruction: "Add the item to your cart but don't buy for 24 hours. The desire usually passes."},
			{Name: "💰 Price in hours", Instruction: "Convert the price into hours of your work: 'This costs 8 hours of my life. Is it worth it?'"},
			{Name: "📝 Needs list", Instruction: "Write down 3 things you genuinely need. Is this purchase on the list?"},
		},
	},
}

// GuideFor returns the technique guide for a category.
func GuideFor(c models.Category) (ImpulseGuide, bool) {
	g, ok := impulseGuides[c]
	return g, ok
}

var breathingExercises = []Exercise{
	{Name: "4-7-8 breathing", Instruction: "1️⃣ Inhale through the nose for 4 counts\n2️⃣ Hold for 7 counts\n3️⃣ Exhale through the mouth for 8 counts\n4️⃣ Repeat 3-4 times\n\nActivates the parasympathetic nervous system and lowers stress."},
	{Name: "Box breathing", Instruction: "🟦 Inhale 4 counts, hold 4, exhale 4, hold 4. Repeat 5-6 rounds. Picture drawing a square with your breath."},
	{Name: "Triangle breathing", Instruction: "🔺 Inhale 3 counts, hold 3, exhale 3. Repeat 7-8 rounds. A simple technique for quick calm."},
	{Name: "Even 5-5 breathing", Instruction: "⚖️ Inhale for 5 counts, exhale for 5 counts. Continue 3-5 minutes. Synchronizes heart and lungs."},
	{Name: "Belly breathing", Instruction: "🤱 Put a hand on your belly. Inhale so the belly rises, not the chest. Exhale slowly through slightly pursed lips. Repeat 5-10 times."},
	{Name: "Ocean breath", Instruction: "🌊 Breathe through the nose with a slight constriction in the throat, making a soft 'hh' sound. Keep inhale and exhale equal for 2-3 minutes."},
	{Name: "Bee breath", Instruction: "🐝 Cover your ears with your thumbs, inhale through the nose, and hum 'mmm' on the exhale. Repeat 5-7 times. The vibration calms the nervous system."},
	{Name: "Six-count breathing", Instruction: "6️⃣ Inhale 6 counts, hold 6, exhale 6. Repeat 6 cycles."},
	{Name: "Power breath", Instruction: "💪 Sharp deep inhale through the nose, hold for 3 counts, then a forceful exhale through the mouth with a 'HA!'. Repeat 5 times."},
	{Name: "Alternate nostril breathing", Instruction: "🔄 Close the right nostril and inhale left; close the left, exhale right; inhale right; exhale left. 10 full cycles."},
	{Name: "Lion's breath", Instruction: "🦁 Deep inhale through the nose, then open the mouth wide, stick out the tongue, and exhale hard with an 'AAAH'. Repeat 3-5 times."},
	{Name: "Releasing breath", Instruction: "🕊️ Deep inhale raising your arms, hold while imagining you are carrying every problem, then a sharp exhale letting it all drop. Repeat 5-7 times."},
}

var meditationPractices = []Exercise{
	{Name: "Breath meditation", Instruction: "🫁 Sit comfortably, close your eyes, and watch your natural breath. When the mind wanders, gently bring attention back. 5-10 minutes."},
	{Name: "Body scan", Instruction: "🧘 Lie or sit comfortably. Starting at the toes, move attention slowly upward, noticing sensations without trying to change them. 15-20 minutes."},
	{Name: "Walking meditation", Instruction: "🚶 Walk 3-4 times slower than usual, focusing on the sensations in your feet: lifting, moving, landing. 10-15 minutes."},
	{Name: "Sound meditation", Instruction: "🎵 Close your eyes and listen to every sound around you without judging. When the mind starts analyzing, return to just listening. 10-15 minutes."},
	{Name: "Mindful eating", Instruction: "🍎 Take a small piece of food. Study it for a minute, then chew slowly, noticing texture, taste, and swallowing."},
	{Name: "Emotion watching", Instruction: "😌 Recall a mildly unpleasant situation. Notice where in the body you feel the emotion and breathe into that spot without trying to change it. 5-10 minutes."},
	{Name: "Thought noting", Instruction: "💭 Sit and watch the breath. When a thought arrives, silently note 'thought' and return to the breath without developing it. 15-20 minutes."},
	{Name: "Gratitude practice", Instruction: "🙏 Put a hand on your heart and recall 3 things you are grateful for. Feel the warmth in your chest. 5-10 minutes."},
	{Name: "Mountain meditation", Instruction: "⛰️ Imagine yourself as a mountain: base deep in the earth, summit in the clouds. Weather changes around you, you stay still. 10-20 minutes."},
	{Name: "Ocean meditation", Instruction: "🌊 Imagine yourself as a deep ocean. Waves on the surface are thoughts and emotions; the depths are always still. Sink into the depths. 15-25 minutes."},
	{Name: "Witness practice", Instruction: "👁️ Observe everything that appears in the mind — thoughts, feelings, sensations — like clouds in the sky. You are the sky, not the clouds."},
	{Name: "Stillness sitting", Instruction: "🤫 Use no technique at all. Sit in complete silence, neither following thoughts nor pushing them away. From 20 minutes."},
}

var miniGames = []Exercise{
	{Name: "Backwards counting", Instruction: "🔢 Count from 100 down to 1, but skip every number containing a 7 and say 'BOOM' instead of multiples of 5. Mistake? Start over."},
	{Name: "Times-table sprint", Instruction: "✖️ Pick a number from 6 to 9 and multiply it by 1 through 20 out loud, as fast as you can. Time yourself and beat your record."},
	{Name: "Number patterns", Instruction: "🔢 Continue the sequences: 2, 4, 8, 16, ? · 1, 4, 9, 16, 25, ? · 1, 1, 2, 3, 5, 8, ? Then invent your own."},
	{Name: "Alphabet categories", Instruction: "🔤 Pick a category (cities, animals, food) and name one item for each letter of the alphabet. No repeats. Then try in reverse order."},
	{Name: "Rhyme chains", Instruction: "🎵 Take the word 'light' and find 10 words that rhyme with it. Build a short verse out of them."},
	{Name: "Association chains", Instruction: "🔗 Start with 'ocean'. Each next word is an association to the previous one. Build a chain of 20 words, then try to loop back to the start."},
	{Name: "Color rainbow", Instruction: "🌈 Close your eyes. Picture red — where do you see it? Move through orange, yellow, green, blue, violet, naming 3 objects for each."},
	{Name: "Dream room architect", Instruction: "🏠 Design your ideal room in your head: furniture, wall colors, lighting, plants. Then 'walk' through it."},
	{Name: "Finger gymnastics", Instruction: "🤏 Clench and open your fists 10 times, touch each finger with your thumb in turn, play air piano, then lace your fingers and stretch."},
	{Name: "Eye workout", Instruction: "👀 Look up-down 10 times, left-right 10 times, trace both diagonals, draw a figure 8 with your eyes, then squeeze them shut and open."},
	{Name: "Unusual uses", Instruction: "🔄 Take an ordinary paperclip and invent 20 ways to use it. Be inventive: bottle opener, ornament, tool..."},
	{Name: "Fifty-word story", Instruction: "📚 Pick 3 random words and write a story using all three — in exactly 50 words. Try: space, grandmother, pizza."},
	{Name: "Memory palace", Instruction: "🧠 Memorize this list: milk, keys, umbrella, book, flowers, bread, phone. Build one vivid story linking them all. Recite it in 5 minutes, then backwards."},
}

// PickBreathing returns a uniformly random breathing exercise.
func PickBreathing() Exercise {
	return breathingExercises[rand.IntN(len(breathingExercises))]
}

// PickMeditation returns a uniformly random meditation practice.
func PickMeditation() Exercise {
	return meditationPractices[rand.IntN(len(meditationPractices))]
}

// PickMiniGame returns a uniformly random distraction game.
func PickMiniGame() Exercise {
	return miniGames[rand.IntN(len(miniGames))]
}
