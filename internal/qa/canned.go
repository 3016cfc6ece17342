package qa

// CannedAnswer is a hardcoded question/answer pair about Alice in Wonderland.
type CannedAnswer struct {
	Question string
	Answer   string
}

// Keys of the canned table, lower-case as they are matched.
const (
	keyAlice      = "alice kimdir?"
	keyRabbit     = "beyaz tavşan nedir?"
	keyWonderland = "harikalar diyarı nedir?"
	keyCat        = "cheshire kedisi kimdir?"
	keyHatter     = "çılgın şapkacı kimdir?"
	keyCarroll    = "lewis carroll kimdir?"
	keyAuthor     = "kitabın yazarı kimdir?"
	keyPublished  = "kitap ne zaman yazıldı?"
	keyQueen      = "kraliçe kimdir?"
)

// cannedAnswers is ordered; fuzzy matching takes the first entry that
// reaches the threshold.
var cannedAnswers = []CannedAnswer{
	{keyAlice, "Alice, 'Alice Harikalar Diyarında' adlı hikayenin ana karakteridir. Meraklı ve maceracı bir kız çocuğudur. Beyaz Tavşan'ı takip ederek Harikalar Diyarı'na düşer ve orada birçok fantastik karakter ve olayla karşılaşır."},
	{keyRabbit, "Beyaz Tavşan, Alice Harikalar Diyarında kitabındaki önemli bir karakterdir. Ceket giymiş, saat taşıyan konuşan bir tavşandır. Hikayenin başında \"Geç kaldım, geç kaldım!\" diyerek koşarken Alice'in dikkatini çeker ve Alice'in onu takip ederek Harikalar Diyarı'na düşmesine neden olur."},
	{keyWonderland, "Harikalar Diyarı, Lewis Carroll'ın yazdığı 'Alice Harikalar Diyarında' kitabındaki fantastik bir yerdir. Konuşan hayvanlar, canlı oyun kartları, mantıksız kuralları olan çay partileri gibi birçok tuhaf ve olağanüstü olayın gerçekleştiği sürreal bir dünyadır."},
	{keyCat, "Cheshire Kedisi, Alice Harikalar Diyarında'daki en ikonik karakterlerden biridir. Görünmez olabilen ve sadece sırıtışı görünür şekilde kalabilen gizemli bir kedidir. Alice'e sık sık bilmeceli tavsiyeler verir ve Harikalar Diyarı'nın tuhaf mantığını temsil eder."},
	{keyHatter, "Çılgın Şapkacı, Alice Harikalar Diyarında'daki eksantrik bir karakterdir. Sürekli çay saati olan bir çay partisi düzenler ve mantıksız bilmeceler sorar. Tuhaf davranışları ve mantık dışı konuşmaları ile bilinir."},
	{keyCarroll, "Lewis Carroll (gerçek adı Charles Lutwidge Dodgson), 'Alice Harikalar Diyarında' ve 'Aynadan İçeri' kitaplarının yazarıdır. 1832-1898 yılları arasında yaşamış İngiliz bir yazar, matematikçi ve fotoğrafçıdır."},
	{keyAuthor, "Alice Harikalar Diyarında kitabının yazarı Lewis Carroll'dır (gerçek adı Charles Lutwidge Dodgson). 1865 yılında kitabı yayımlamıştır."},
	{keyPublished, "Alice Harikalar Diyarında kitabı 1865 yılında Lewis Carroll tarafından yayımlanmıştır."},
	{keyQueen, "Kupa Kraliçesi, Alice Harikalar Diyarında'daki ana antagonistlerden biridir. Öfkeli ve zalim bir karakterdir, sürekli 'Kafasını kesin!' diye bağırır ve oyun kartlarından oluşan bir orduyu yönetir."},
}

// InsufficientInfoMessage is returned when neither the model nor any
// fallback rule produced an answer.
const InsufficientInfoMessage = "Bu soru hakkında yeterli bilgiye sahip değilim. Alice Harikalar Diyarında kitabı ve karakterleri hakkında soru sorabilirsiniz."

// CannedAnswers returns a copy of the table.
func CannedAnswers() []CannedAnswer {
	out := make([]CannedAnswer, len(cannedAnswers))
	copy(out, cannedAnswers)
	return out
}

func cannedAnswer(key string) string {
	for _, c := range cannedAnswers {
		if c.Question == key {
			return c.Answer
		}
	}
	panic("qa: unknown canned key " + key)
}
