package service

import (
	"fmt"
	petModel "pawsay/internal/domain/pet/model"
	"pawsay/pkg/security"
	"strings"
)

// 写入提示词的自由文本长度上限
const (
	nameLimit             = 50
	breedLimit            = 50
	ageLimit              = 20
	personalityLimit      = 100
	imagePersonalityLimit = 80
)

func vocalization(species petModel.Species) string {
	if species == petModel.SpeciesDog {
		return "WOOF/BARK/WHINE/GROWL"
	}
	return "MEOW/PURR/HISS"
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func profileContext(p *petModel.PetProfile) string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "The pet's name is %s.\n", security.SanitizeForPrompt(p.Name, nameLimit))
	fmt.Fprintf(&b, "Species: %s.\n", p.Species)
	fmt.Fprintf(&b, "Breed: %s.\n", security.SanitizeForPrompt(orDefault(p.Breed, "Unknown"), breedLimit))
	fmt.Fprintf(&b, "Age: %s.\n", security.SanitizeForPrompt(orDefault(p.Age, "Unknown"), ageLimit))
	fmt.Fprintf(&b, "Personality: %s.\n", security.SanitizeForPrompt(orDefault(p.Personality, "Standard"), personalityLimit))
	return b.String()
}

// SystemInstruction 分类请求的系统提示词
func SystemInstruction(species petModel.Species, profile *petModel.PetProfile) string {
	return fmt.Sprintf(`You are a world-class animal behaviorist and acoustic analyst.
Analyze the provided audio for %[1]s sounds.

AUDIT TASKS:
1. Determine if the sound is primarily a %[1]s vocalization (%[2]s).
2. Filter out human speech or background noise. If human talking is the main feature, mark soundDetected as false.
3. If a %[1]s is heard, identify the emotion and provide a fun translation.

JSON STRUCTURE:
{
  "detectedSoundType": "pet_vocalization" | "human_speech" | "background_noise" | "silence",
  "soundDetected": boolean,
  "emotion": string | null,
  "explanation": "Human-friendly translation of what the pet is saying",
  "advice": "Care advice for the owner"
}

%[3]s`, species, vocalization(species), profileContext(profile))
}

// UserPrompt 随音频一起发送的文本
func UserPrompt(species petModel.Species) string {
	return fmt.Sprintf("Analyze this audio for %s sounds and return the results in JSON format.", species)
}

// ImagePrompt 配图提示词
func ImagePrompt(species petModel.Species, emotion string, profile *petModel.PetProfile) string {
	pet := "a " + string(species)
	trait := ""
	if profile != nil {
		breed := string(species)
		if profile.Breed != "" && profile.Breed != "Other" {
			breed = profile.Breed
		}
		pet = fmt.Sprintf("a %s %s", security.SanitizeForPrompt(breed, breedLimit), species)
		if profile.Personality != "" {
			trait = fmt.Sprintf(" This pet has a %s personality.",
				strings.ToLower(security.SanitizeForPrompt(profile.Personality, imagePersonalityLimit)))
		}
	}
	return fmt.Sprintf("A cute 3D animation style illustration of %s expressing %s. Soft lighting, clean background.%s",
		pet, security.SanitizeForPrompt(emotion, nameLimit), trait)
}
