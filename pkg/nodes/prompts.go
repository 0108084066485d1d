package nodes

import "fmt"

// Default prompts surfaced as input defaults so host UIs show (and let users
// override) them.
const (
	// DescribeImagePrompt is the default instruction for Describe Image.
	DescribeImagePrompt = "Describe this image in detail."

	// CombineTextsPrompt is the default instruction for Combine Texts.
	CombineTextsPrompt = "Combine the following two texts into one coherent prompt without redundancies."

	// TransformTextPrompt is the default instruction for Transform Text.
	TransformTextPrompt = "Rewrite the following text."
)

// ClassifyImagePrompt is the default garment-classification instruction for
// Classify Image. The output contract (bare class names, max two, comma
// separated) is load-bearing: downstream nodes feed it to a bounding-box
// model verbatim.
const ClassifyImagePrompt = "You are a visual classification model. I will provide you with a full-body fashion image containing one or more garments. Your task is to analyze the entire image and classify each distinct visible garment using **only** the following predefined list of classes: dress, jacket, jumpsuit, sweatshirt, coat, cardigan, skort, bikini, leggings, underwear, swimsuit, bodysuit, vest, poncho, saree, kurta, sweater, sleepwear, tank-top, shirt, pants, shorts, thshirt, skirt, topwear, jeans, tshirt, blazer, bra ### Instructions: - Identify the **most prominent garments** visible in the image - Select the **best-fitting label** from the list above for each garment - **MAXIMUM TWO CLASSES ONLY** - return at most 2 garment classifications - If there is only one visible garment, return just the **single class name** - If there are multiple garments, return **only the two most prominent ones** in a **comma-separated format** (e.g., `shirt, pants`) - **Only** use the class names from the list above. Do **not** create new categories or output any additional text - Your output must be **clean and machine-readable**, as it will be passed directly to another model (Moondream) for bounding box extraction ### Output format: - One garment → `tshirt` - Two garments → `tshirt, jeans` - **NEVER return more than two classes** Again, **do not include explanations, descriptions, confidence scores, or formatting**—just the class name(s) as a single plain string with maximum two classes."

// CombinePrompt assembles the Combine Texts payload. Pure string formatting;
// given fixed inputs the output is exactly reproducible.
func CombinePrompt(prompt, prefix1, text1, prefix2, text2 string) string {
	return fmt.Sprintf("%s\n%s %s\n%s %s", prompt, prefix1, text1, prefix2, text2)
}

// TransformPrompt assembles the Transform Text payload.
func TransformPrompt(prompt, text string) string {
	return fmt.Sprintf("%s\nText: %s\n", prompt, text)
}
