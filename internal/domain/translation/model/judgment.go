package model

// SoundType 音频分类结果
type SoundType string

const (
	SoundPetVocalization SoundType = "pet_vocalization"
	SoundHumanSpeech     SoundType = "human_speech"
	SoundBackgroundNoise SoundType = "background_noise"
	SoundSilence         SoundType = "silence"
)

// Valid 是否为已知分类
func (t SoundType) Valid() bool {
	switch t {
	case SoundPetVocalization, SoundHumanSpeech, SoundBackgroundNoise, SoundSilence:
		return true
	}
	return false
}

// Judgment 一次翻译结果，不落库
type Judgment struct {
	SoundDetected     bool      `json:"soundDetected"`
	DetectedSoundType SoundType `json:"detectedSoundType,omitempty"`
	Emotion           string    `json:"emotion,omitempty"`
	Explanation       string    `json:"explanation,omitempty"`
	Advice            string    `json:"advice,omitempty"`
	ImageURL          string    `json:"imageUrl,omitempty"`
}

// Illustratable 识别到宠物声音且有情绪时才生成配图
func (j *Judgment) Illustratable() bool {
	return j.SoundDetected && j.Emotion != ""
}
